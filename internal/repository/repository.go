// Package repository provides the document store access layer.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection = "users"

	connectTimeout = 10 * time.Second
)

// Repository provides document store access methods.
type Repository struct {
	client *mongo.Client
	users  *mongo.Collection
}

// New connects to MongoDB, verifies the connection, and ensures indexes.
func New(ctx context.Context, mongoURL, database string) (*Repository, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	r := &Repository{
		client: client,
		users:  client.Database(database).Collection(usersCollection),
	}

	if err := r.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return r, nil
}

// ensureIndexes creates the unique index on users.email. The index is what
// makes concurrent first signups for the same email converge on one record.
func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Ping checks document store connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Close disconnects from the document store.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
