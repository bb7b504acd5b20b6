package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TracksCollection holds catalog documents when the catalog is served from MongoDB
const TracksCollection = "tracks"

// Database represents the database connection
type Database struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewDatabase creates a new database connection
func NewDatabase(ctx context.Context, mongoURL, dbName string) (*Database, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetMaxPoolSize(10).
		SetMinPoolSize(1).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &Database{
		Client: client,
		DB:     client.Database(dbName),
	}, nil
}

// Close closes the database connection
func (d *Database) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

// CreateIndexes creates the indexes the catalog import relies on
func (d *Database) CreateIndexes(ctx context.Context) error {
	tracks := d.DB.Collection(TracksCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "track_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "genre", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "mood_bucket", Value: 1}, {Key: "energy_label", Value: 1}},
		},
	}

	_, err := tracks.Indexes().CreateMany(ctx, indexes)
	return err
}
