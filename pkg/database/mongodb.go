package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB wraps the MongoDB client and database
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Connect establishes a connection to MongoDB
func Connect(ctx context.Context, uri, dbName string) (*MongoDB, error) {
	clientOptions := options.Client().ApplyURI(uri)

	// Set connection timeout
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	mongoDB := &MongoDB{
		Client:   client,
		Database: db,
	}

	// Create indexes
	if err := mongoDB.CreateIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return mongoDB, nil
}

// CreateIndexes creates all necessary indexes for the application
func (m *MongoDB) CreateIndexes(ctx context.Context) error {
	// Promotions are filtered by status and campaign window
	promotionsCollection := m.Database.Collection("promotions")
	promotionWindowIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		},
		Options: options.Index().SetName("promotion_window"),
	}
	if _, err := promotionsCollection.Indexes().CreateOne(ctx, promotionWindowIndex); err != nil {
		return fmt.Errorf("failed to create promotion window index: %w", err)
	}

	// Unique compound index on participations(promotion_id, installer_id).
	// This makes the loser of a concurrent double join fail at insert.
	participationsCollection := m.Database.Collection("participations")
	pairIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "promotion_id", Value: 1},
			{Key: "installer_id", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("promotion_installer_unique"),
	}
	if _, err := participationsCollection.Indexes().CreateOne(ctx, pairIndex); err != nil {
		return fmt.Errorf("failed to create promotion_installer unique index: %w", err)
	}

	// Serial registrations are always read per installer
	serialsCollection := m.Database.Collection("serials")
	serialInstallerIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "installer_id", Value: 1}},
		Options: options.Index().SetName("serial_installer_index"),
	}
	if _, err := serialsCollection.Indexes().CreateOne(ctx, serialInstallerIndex); err != nil {
		return fmt.Errorf("failed to create serial installer index: %w", err)
	}

	return nil
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
