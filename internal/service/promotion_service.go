package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
	"solar-rewards/internal/repository"
	apperrors "solar-rewards/pkg/errors"
)

// TransactionRunner executes a function atomically. The Mongo unit of work
// implements it with a session transaction; the in-memory store runs the
// function directly.
type TransactionRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// PromotionService handles administration of promotion definitions
type PromotionService struct {
	promotionRepo     repository.PromotionRepository
	participationRepo repository.ParticipationRepository
	tx                TransactionRunner
}

// NewPromotionService creates a new promotion service
func NewPromotionService(promotionRepo repository.PromotionRepository, participationRepo repository.ParticipationRepository, tx TransactionRunner) *PromotionService {
	return &PromotionService{
		promotionRepo:     promotionRepo,
		participationRepo: participationRepo,
		tx:                tx,
	}
}

// Create validates and persists a new promotion
func (s *PromotionService) Create(ctx context.Context, req *model.CreatePromotionRequest, now time.Time) (*model.Promotion, error) {
	promotion := &model.Promotion{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Target:      req.Target,
		Rewards:     req.Rewards,
		Eligibility: req.Eligibility,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if promotion.Status == "" {
		promotion.Status = model.PromotionStatusActive
	}

	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}

	if err := s.promotionRepo.CreatePromotion(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Update applies a partial patch to an existing promotion and re-validates
// the merged record.
func (s *PromotionService) Update(ctx context.Context, id primitive.ObjectID, patch *model.UpdatePromotionRequest, now time.Time) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		promotion.Title = *patch.Title
	}
	if patch.Description != nil {
		promotion.Description = *patch.Description
	}
	if patch.Type != nil {
		promotion.Type = *patch.Type
	}
	if patch.Status != nil {
		promotion.Status = *patch.Status
	}
	if patch.StartDate != nil {
		promotion.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		promotion.EndDate = *patch.EndDate
	}
	if patch.Target != nil {
		promotion.Target = *patch.Target
	}
	if patch.Rewards != nil {
		promotion.Rewards = *patch.Rewards
	}
	if patch.Eligibility != nil {
		promotion.Eligibility = *patch.Eligibility
	}

	if err := validatePromotion(promotion); err != nil {
		return nil, err
	}

	promotion.UpdatedAt = now
	if err := s.promotionRepo.UpdatePromotion(ctx, promotion); err != nil {
		return nil, err
	}
	return promotion, nil
}

// Delete removes a promotion and every participation referencing it. The
// cascade runs in a single transaction so a partial delete is never visible.
func (s *PromotionService) Delete(ctx context.Context, id primitive.ObjectID) (*model.Promotion, error) {
	promotion, err := s.promotionRepo.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.participationRepo.DeleteParticipationsForPromotion(ctx, id); err != nil {
			return err
		}
		return s.promotionRepo.DeletePromotion(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return promotion, nil
}

// Get retrieves a promotion by id
func (s *PromotionService) Get(ctx context.Context, id primitive.ObjectID) (*model.Promotion, error) {
	return s.promotionRepo.GetPromotion(ctx, id)
}

// ListActive returns promotions whose campaign window contains now
func (s *PromotionService) ListActive(ctx context.Context, now time.Time) ([]*model.Promotion, error) {
	return s.promotionRepo.ListActivePromotions(ctx, now)
}

// validatePromotion collects every violated field so the caller sees the
// full list in one response.
func validatePromotion(p *model.Promotion) error {
	var fields []string
	if p.Title == "" {
		fields = append(fields, "title is required")
	}
	if p.Description == "" {
		fields = append(fields, "description is required")
	}
	if p.StartDate.IsZero() {
		fields = append(fields, "start_date is required")
	}
	if p.EndDate.IsZero() {
		fields = append(fields, "end_date is required")
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && !p.StartDate.Before(p.EndDate) {
		fields = append(fields, "start_date must be before end_date")
	}
	if p.Target.Value <= 0 {
		fields = append(fields, "target.value must be positive")
	}
	if p.Rewards.Amount < 0 {
		fields = append(fields, "rewards.amount must not be negative")
	}
	if len(fields) > 0 {
		return &apperrors.ValidationError{Fields: fields}
	}
	return nil
}
