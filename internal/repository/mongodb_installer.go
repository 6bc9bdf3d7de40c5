package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"solar-rewards/internal/model"
	apperrors "solar-rewards/pkg/errors"
)

// mongodbInstallerRepository implements InstallerRepository using MongoDB
type mongodbInstallerRepository struct {
	collection *mongo.Collection
}

// NewInstallerRepository creates a new MongoDB-based installer repository
func NewInstallerRepository(db *mongo.Database) InstallerRepository {
	return &mongodbInstallerRepository{
		collection: db.Collection("installers"),
	}
}

func (r *mongodbInstallerRepository) GetInstaller(ctx context.Context, id string) (*model.Installer, error) {
	var installer model.Installer
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&installer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrInstallerNotFound
		}
		return nil, err
	}
	return &installer, nil
}

// mongodbSerialRepository implements SerialRepository using MongoDB
type mongodbSerialRepository struct {
	collection *mongo.Collection
}

// NewSerialRepository creates a new MongoDB-based serial registration repository
func NewSerialRepository(db *mongo.Database) SerialRepository {
	return &mongodbSerialRepository{
		collection: db.Collection("serials"),
	}
}

func (r *mongodbSerialRepository) ListForInstaller(ctx context.Context, installerID string) ([]*model.SerialRegistration, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"installer_id": installerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var records []*model.SerialRegistration
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}
