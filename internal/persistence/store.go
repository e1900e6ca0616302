package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/store"
)

// OpenStore builds the document store selected by cfg.Store.Driver.
// The caller owns the returned store and must Close it.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		mongoStore := store.NewMongoStore(client, cfg.Mongo.Database)
		if err := mongoStore.EnsureIndexes(ctx, store.DefaultIndexes); err != nil {
			_ = mongoStore.Close(ctx)
			return nil, err
		}
		return mongoStore, nil

	case config.StoreDriverPostgres:
		pool, err := OpenPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}
		return store.NewPostgresStore(pool), nil

	default:
		logger.Warn("no database credentials configured; using in-memory document store")
		return store.NewMemoryStore(store.DefaultIndexes...), nil
	}
}
