package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"solar-rewards/internal/model"
	apperrors "solar-rewards/pkg/errors"
)

// mongodbPromotionRepository implements PromotionRepository using MongoDB
type mongodbPromotionRepository struct {
	collection *mongo.Collection
}

// NewPromotionRepository creates a new MongoDB-based promotion repository
func NewPromotionRepository(db *mongo.Database) PromotionRepository {
	return &mongodbPromotionRepository{
		collection: db.Collection("promotions"),
	}
}

func (r *mongodbPromotionRepository) CreatePromotion(ctx context.Context, promotion *model.Promotion) error {
	result, err := r.collection.InsertOne(ctx, promotion)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		promotion.ID = oid
	}
	return nil
}

func (r *mongodbPromotionRepository) GetPromotion(ctx context.Context, id primitive.ObjectID) (*model.Promotion, error) {
	var promotion model.Promotion
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&promotion)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperrors.ErrPromotionNotFound
		}
		return nil, err
	}
	return &promotion, nil
}

func (r *mongodbPromotionRepository) UpdatePromotion(ctx context.Context, promotion *model.Promotion) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": promotion.ID}, promotion)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrPromotionNotFound
	}
	return nil
}

func (r *mongodbPromotionRepository) DeletePromotion(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrPromotionNotFound
	}
	return nil
}

func (r *mongodbPromotionRepository) ListActivePromotions(ctx context.Context, now time.Time) ([]*model.Promotion, error) {
	filter := bson.M{
		"status":     model.PromotionStatusActive,
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var promotions []*model.Promotion
	if err := cursor.All(ctx, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}
