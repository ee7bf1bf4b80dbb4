package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adyela/payments/internal/adapters/handler"
	"github.com/adyela/payments/internal/adapters/handler/middleware"
	"github.com/adyela/payments/internal/adapters/stripe"
	"github.com/adyela/payments/internal/api"
	"github.com/adyela/payments/internal/bootstrap"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/service"
)

func main() {
	cfg, err := config.LoadPaymentsConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payments service",
		"port", cfg.Server.Port,
		"env", cfg.Primary.Env,
		"store", cfg.Store.Driver,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()

	paymentRepo, closeStore, err := bootstrap.PaymentStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open payment store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	gateway := stripe.NewClient(cfg.Gateway, logger)

	lifecycleService := service.NewLifecycleService(paymentRepo, gateway, logger)
	queryService := service.NewPaymentQueryService(paymentRepo)
	webhookService := service.NewWebhookService(gateway, lifecycleService, logger)

	authClient, closeCache := bootstrap.AuthClient(ctx, cfg.Auth, cfg.Redis, logger)
	defer closeCache()

	doc, err := api.LoadSpec(ctx)
	if err != nil {
		logger.Error("failed to load openapi spec", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	handler.RegisterHealthRoute(mux, "payments")
	if err := api.RegisterDocsRoutes(mux, doc); err != nil {
		logger.Error("failed to register docs routes", "error", err)
		os.Exit(1)
	}

	h := handler.NewPaymentHandler(lifecycleService, queryService, webhookService, logger, cfg.Primary.IsDevelopment())
	h.RegisterRoutes(mux, cfg.Server.APIPrefix, middleware.RequireAuth(authClient))

	root := middleware.Chain(mux,
		middleware.Recovery(logger),
		middleware.Logging(logger),
		middleware.CORS(cfg.CORS.Origins),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
