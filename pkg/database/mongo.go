package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// NewMongoDB connect with retry, ping before handing the database out
func NewMongoDB(ctx context.Context, c Connection, dbName string) (*MongoDB, error) {
	opts := options.Client().ApplyURI(c.ConnectStr)

	var err error
	for attempt := 1; attempt <= c.RetryCount; attempt++ {
		var client *mongo.Client
		client, err = mongo.Connect(ctx, opts)
		if err == nil {
			if err = client.Ping(ctx, readpref.Primary()); err == nil {
				log.Printf("mongo connected (attempt %d)", attempt)
				return &MongoDB{
					Client:   client,
					Database: client.Database(dbName),
				}, nil
			}
		}

		log.Printf("mongo connect failed (attempt %d/%d): %v", attempt, c.RetryCount, err)
		time.Sleep(c.RetryInterval * time.Second)
	}

	return nil, fmt.Errorf("unable to connect to mongo after %d attempts: %v", c.RetryCount, err)
}

// Close disconnect the mongo client
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
