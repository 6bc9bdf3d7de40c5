package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"solar-rewards/internal/model"
	apperrors "solar-rewards/pkg/errors"
)

// mongodbParticipationRepository implements ParticipationRepository using MongoDB
type mongodbParticipationRepository struct {
	collection *mongo.Collection
}

// NewParticipationRepository creates a new MongoDB-based participation repository
func NewParticipationRepository(db *mongo.Database) ParticipationRepository {
	return &mongodbParticipationRepository{
		collection: db.Collection("participations"),
	}
}

// CreateParticipation inserts a new participation. The unique compound index
// on (promotion_id, installer_id) makes the loser of a concurrent double
// join fail here with a duplicate-key error.
func (r *mongodbParticipationRepository) CreateParticipation(ctx context.Context, participation *model.Participation) error {
	result, err := r.collection.InsertOne(ctx, participation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrAlreadyParticipating
		}
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		participation.ID = oid
	}
	return nil
}

func (r *mongodbParticipationRepository) GetParticipation(ctx context.Context, promotionID primitive.ObjectID, installerID string) (*model.Participation, error) {
	var participation model.Participation
	err := r.collection.FindOne(ctx, bson.M{
		"promotion_id": promotionID,
		"installer_id": installerID,
	}).Decode(&participation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, err
	}
	return &participation, nil
}

func (r *mongodbParticipationRepository) GetParticipationByID(ctx context.Context, id primitive.ObjectID) (*model.Participation, error) {
	var participation model.Participation
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&participation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrParticipationNotFound
		}
		return nil, err
	}
	return &participation, nil
}

func (r *mongodbParticipationRepository) SaveParticipation(ctx context.Context, participation *model.Participation) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": participation.ID}, participation)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrParticipationNotFound
	}
	return nil
}

func (r *mongodbParticipationRepository) DeleteParticipationsForPromotion(ctx context.Context, promotionID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"promotion_id": promotionID})
	return err
}
