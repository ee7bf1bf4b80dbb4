// Package bootstrap builds the adapters shared by the binaries from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adyela/payments/internal/adapters/auth"
	"github.com/adyela/payments/internal/adapters/firestore"
	"github.com/adyela/payments/internal/adapters/memory"
	"github.com/adyela/payments/internal/adapters/postgres"
	"github.com/adyela/payments/internal/adapters/redis"
	"github.com/adyela/payments/internal/config"
	"github.com/adyela/payments/internal/core/ports"
)

// PaymentStore opens the payment repository selected by cfg.Store.Driver.
// The returned close func is never nil.
func PaymentStore(ctx context.Context, cfg *config.PaymentsConfig, logger *slog.Logger) (ports.PaymentRepository, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := postgres.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, func() {}, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, func() {}, err
		}
		return postgres.NewPaymentRepository(db), db.Close, nil

	case config.StoreDriverFirestore:
		client, err := firestore.NewClient(ctx, cfg.Firestore)
		if err != nil {
			return nil, func() {}, err
		}
		closeFn := func() {
			if err := client.Close(); err != nil {
				logger.Warn("failed to close firestore client", "error", err)
			}
		}
		logger.Info("using firestore payment store", "project", cfg.Firestore.ProjectID, "collection", cfg.Firestore.Collection)
		return firestore.NewPaymentRepository(client, cfg.Firestore.Collection), closeFn, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory payment store; data is lost on restart")
		return memory.NewPaymentRepository(), func() {}, nil
	}

	return nil, func() {}, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// AuthClient builds the token validator. When redisCfg.URL is set,
// validated principals are cached in Redis; an unreachable Redis is logged
// and the client runs uncached.
func AuthClient(ctx context.Context, authCfg config.AuthConfig, redisCfg config.RedisConfig, logger *slog.Logger) (*auth.Client, func()) {
	if redisCfg.URL == "" {
		return auth.NewClient(authCfg, nil, logger), func() {}
	}

	rdb, err := redis.Connect(ctx, redisCfg.URL)
	if err != nil {
		logger.Warn("redis unavailable, token cache disabled", "error", err)
		return auth.NewClient(authCfg, nil, logger), func() {}
	}

	cache := redis.NewTokenCache(rdb, redisCfg.KeyPrefix, logger)
	return auth.NewClient(authCfg, cache, logger), func() { _ = rdb.Close() }
}
