package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
)

// ParticipationRepository defines the interface for participation data operations
type ParticipationRepository interface {
	// CreateParticipation inserts a new participation record.
	// Returns ErrAlreadyParticipating if one already exists for the
	// (promotion, installer) pair.
	CreateParticipation(ctx context.Context, participation *model.Participation) error

	// GetParticipation retrieves the participation for a (promotion, installer) pair
	GetParticipation(ctx context.Context, promotionID primitive.ObjectID, installerID string) (*model.Participation, error)

	// GetParticipationByID retrieves a participation by its own id
	GetParticipationByID(ctx context.Context, id primitive.ObjectID) (*model.Participation, error)

	// SaveParticipation replaces an existing participation record
	SaveParticipation(ctx context.Context, participation *model.Participation) error

	// DeleteParticipationsForPromotion removes every participation that
	// references the promotion
	DeleteParticipationsForPromotion(ctx context.Context, promotionID primitive.ObjectID) error
}
