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
	"github.com/adyela/payments/internal/bootstrap"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/notification"
	"github.com/adyela/payments/internal/notification/channel"
	"github.com/adyela/payments/internal/notification/store"
)

func main() {
	cfg, err := config.LoadNotificationsConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting notifications service",
		"port", cfg.Server.Port,
		"env", cfg.Primary.Env,
		"store", cfg.Store.Driver,
	)

	ctx := context.Background()

	repo, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open notification store", "error", err)
		os.Exit(1)
	}

	var sms notification.SMSSender = channel.Unconfigured{Channel: "sms"}
	if sender, err := channel.NewSMSSender(cfg.Twilio); err != nil {
		logger.Warn("sms channel disabled", "reason", err)
	} else {
		sms = sender
	}

	var push notification.PushSender = channel.Unconfigured{Channel: "push"}
	if cfg.Firebase.ProjectID == "" {
		logger.Warn("push channel disabled", "reason", "firebase project id not set")
	} else if sender, err := channel.NewPushSender(ctx, cfg.Firebase); err != nil {
		logger.Warn("push channel disabled", "reason", err)
	} else {
		push = sender
	}

	svc := notification.NewService(repo, channel.NewEmailSender(cfg.SMTP), sms, push, logger)

	authClient, closeCache := bootstrap.AuthClient(ctx, cfg.Auth, cfg.Redis, logger)
	defer closeCache()

	mux := http.NewServeMux()
	handler.RegisterHealthRoute(mux, "notifications")
	handler.NewNotificationHandler(svc, logger, cfg.Primary.IsDevelopment()).
		RegisterRoutes(mux, cfg.Server.APIPrefix, middleware.RequireAuth(authClient))

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

func openStore(ctx context.Context, cfg *config.NotificationsConfig, logger *slog.Logger) (notification.Repository, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory notification store; data is lost on restart")
		return store.NewMemoryRepository(), nil
	}

	db, err := store.Open(&cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	repo := store.NewGormRepository(db)
	if err := repo.AutoMigrate(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}
