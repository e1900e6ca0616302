package persistence

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/store"
)

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, store.MongoClientOptions(cfg.URI))
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("connected to mongodb", zap.String("database", cfg.Database))
	return client, nil
}
