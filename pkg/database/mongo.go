package database

import (
	"context"
	"fmt"
	"time"

	"home-cleaning/pkg/utils"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DB wraps the mongo client and selected database
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Database returns the selected mongo database handle
func (d *DB) Database() *mongo.Database {
	return d.db
}

// Close disconnects the underlying client
func (d *DB) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = d.client.Disconnect(ctx)
}

// InitDB connects to MongoDB and verifies the connection
func InitDB(config utils.DatabaseConfig) (*DB, error) {
	if config.URI == "" {
		return nil, fmt.Errorf("missing MONGODB_URI")
	}

	clientOpts := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetTimeout(30 * time.Second)

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	// Test connection
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		discCtx, discCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer discCancel()
		_ = client.Disconnect(discCtx)
		return nil, fmt.Errorf("ping mongodb failed: %w", err)
	}

	return &DB{
		client: client,
		db:     client.Database(config.Name),
	}, nil
}
