package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
)

// PromotionRepository defines the interface for promotion data operations
type PromotionRepository interface {
	// CreatePromotion persists a new promotion
	CreatePromotion(ctx context.Context, promotion *model.Promotion) error

	// GetPromotion retrieves a promotion by id
	GetPromotion(ctx context.Context, id primitive.ObjectID) (*model.Promotion, error)

	// UpdatePromotion replaces an existing promotion document
	UpdatePromotion(ctx context.Context, promotion *model.Promotion) error

	// DeletePromotion removes a promotion by id
	DeletePromotion(ctx context.Context, id primitive.ObjectID) error

	// ListActivePromotions returns promotions with status active whose
	// campaign window contains now
	ListActivePromotions(ctx context.Context, now time.Time) ([]*model.Promotion, error)
}
