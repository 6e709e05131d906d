package core

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Store wraps the MongoDB client and the database holding the devices
// collection.
type Store struct {
	*mongo.Client
	Database *mongo.Database
	logger   *zap.SugaredLogger
}

func NewStore(cfg *Config, logger *zap.SugaredLogger) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetMaxConnIdleTime(30 * time.Minute).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	logger.Infow("connected to store", "database", cfg.MongoDatabase)

	return &Store{
		Client:   client,
		Database: client.Database(cfg.MongoDatabase),
		logger:   logger,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if err := s.Client.Disconnect(ctx); err != nil {
		s.logger.Errorw("failed to disconnect from store", "error", err)
		return err
	}
	s.logger.Info("disconnected from store")
	return nil
}
