// Package db opens the MongoDB connection used for order storage.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const OrdersCollection = "orders"

type Mongo struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Connect dials uri and pings the primary.
func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{Client: client, DB: client.Database(database)}, nil
}

func (m *Mongo) Orders() *mongo.Collection {
	return m.DB.Collection(OrdersCollection)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
