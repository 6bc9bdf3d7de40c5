package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"solar-rewards/internal/model"
	"solar-rewards/internal/repository"
	apperrors "solar-rewards/pkg/errors"
)

// newInstallerWindow is how recently an installer must have joined the
// program to count as "new" for newInstallersOnly promotions.
const newInstallerWindow = 30 * 24 * time.Hour

// ParticipationService orchestrates the promotion lifecycle:
// join -> progress accrual -> completion -> reward processing.
type ParticipationService struct {
	promotionRepo     repository.PromotionRepository
	participationRepo repository.ParticipationRepository
	installerRepo     repository.InstallerRepository
	serialRepo        repository.SerialRepository
}

// NewParticipationService creates a new participation service
func NewParticipationService(promotionRepo repository.PromotionRepository, participationRepo repository.ParticipationRepository, installerRepo repository.InstallerRepository, serialRepo repository.SerialRepository) *ParticipationService {
	return &ParticipationService{
		promotionRepo:     promotionRepo,
		participationRepo: participationRepo,
		installerRepo:     installerRepo,
		serialRepo:        serialRepo,
	}
}

// Join enrolls an installer in a promotion. The unique index on
// (promotion_id, installer_id) guarantees at most one of two concurrent
// joins for the same pair succeeds; the loser gets ErrAlreadyParticipating.
func (s *ParticipationService) Join(ctx context.Context, promotionID primitive.ObjectID, installerID string, now time.Time) (*model.Participation, error) {
	promotion, err := s.promotionRepo.GetPromotion(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	installer, err := s.installerRepo.GetInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	records, err := s.serialRepo.ListForInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	if rule := eligibilityRule(promotion, installer, records, now); rule != "" {
		return nil, &apperrors.IneligibleError{Rule: rule}
	}

	participation := &model.Participation{
		PromotionID: promotionID,
		InstallerID: installerID,
		Status:      model.ParticipationStatusActive,
		JoinedAt:    now,
	}
	participation.Progress = ComputeProgress(promotion, participation, records, installer, now)

	if err := s.participationRepo.CreateParticipation(ctx, participation); err != nil {
		return nil, err
	}

	logger.Infof("installer %s joined promotion %s", installerID, promotionID.Hex())
	return participation, nil
}

// RefreshProgress recomputes progress for a participation and applies the
// active -> completed transition when the threshold is crossed. Completion
// is monotonic: a snapshot that no longer reports completion (activity
// records disappeared) is stored, but the completed status is kept and the
// anomaly logged rather than silently reverted.
func (s *ParticipationService) RefreshProgress(ctx context.Context, promotionID primitive.ObjectID, installerID string, now time.Time) (*model.Participation, error) {
	participation, err := s.participationRepo.GetParticipation(ctx, promotionID, installerID)
	if err != nil {
		return nil, err
	}

	promotion, err := s.promotionRepo.GetPromotion(ctx, promotionID)
	if err != nil {
		return nil, err
	}

	installer, err := s.installerRepo.GetInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	records, err := s.serialRepo.ListForInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	snapshot := ComputeProgress(promotion, participation, records, installer, now)

	switch {
	case snapshot.IsCompleted && participation.Status == model.ParticipationStatusActive:
		participation.Status = model.ParticipationStatusCompleted
		participation.CompletedAt = snapshot.CompletedAt
		participation.RewardClaimable = true
		participation.RewardStatus = model.RewardStatusPending
		logger.Infof("installer %s completed promotion %s", installerID, promotionID.Hex())

	case !snapshot.IsCompleted && participation.Status == model.ParticipationStatusCompleted:
		logger.Warningf("progress for installer %s on promotion %s dropped below target after completion; keeping completed status",
			installerID, promotionID.Hex())
	}

	participation.Progress = snapshot
	if err := s.participationRepo.SaveParticipation(ctx, participation); err != nil {
		return nil, err
	}
	return participation, nil
}

// SetRewardStatus records an administrator's decision on a completed
// participation's reward.
func (s *ParticipationService) SetRewardStatus(ctx context.Context, participationID primitive.ObjectID, newStatus model.RewardStatus, adminID string, now time.Time) (*model.Participation, error) {
	switch newStatus {
	case model.RewardStatusPending, model.RewardStatusPaid, model.RewardStatusRejected:
	default:
		return nil, &apperrors.ValidationError{Fields: []string{"status must be one of pending, paid, rejected"}}
	}

	participation, err := s.participationRepo.GetParticipationByID(ctx, participationID)
	if err != nil {
		return nil, err
	}
	if participation.Status != model.ParticipationStatusCompleted {
		return nil, apperrors.ErrParticipationNotCompleted
	}

	participation.RewardStatus = newStatus
	switch newStatus {
	case model.RewardStatusPaid:
		claimedAt := now
		participation.RewardClaimed = true
		participation.RewardClaimedAt = &claimedAt
	default:
		participation.RewardClaimed = false
		participation.RewardClaimedAt = nil
	}

	processedAt := now
	participation.RewardProcessedAt = &processedAt
	participation.RewardProcessedBy = adminID

	if err := s.participationRepo.SaveParticipation(ctx, participation); err != nil {
		return nil, err
	}

	logger.Infof("reward for participation %s set to %s by %s", participationID.Hex(), newStatus, adminID)
	return participation, nil
}

// ListForInstaller returns every currently open promotion from the
// installer's point of view: their participation and fresh progress where
// enrolled, and whether they could join where not. Read-only; nothing is
// persisted.
func (s *ParticipationService) ListForInstaller(ctx context.Context, installerID string, now time.Time) ([]*model.PromotionOffer, error) {
	installer, err := s.installerRepo.GetInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	records, err := s.serialRepo.ListForInstaller(ctx, installerID)
	if err != nil {
		return nil, err
	}

	promotions, err := s.promotionRepo.ListActivePromotions(ctx, now)
	if err != nil {
		return nil, err
	}

	offers := make([]*model.PromotionOffer, 0, len(promotions))
	for _, promotion := range promotions {
		offer := &model.PromotionOffer{Promotion: promotion}

		participation, err := s.participationRepo.GetParticipation(ctx, promotion.ID, installerID)
		switch {
		case err == nil:
			snapshot := ComputeProgress(promotion, participation, records, installer, now)
			offer.Participation = participation
			offer.Progress = &snapshot
			offer.IsParticipating = true
		case errors.Is(err, apperrors.ErrParticipationNotFound):
			offer.CanJoin = eligibilityRule(promotion, installer, records, now) == ""
		default:
			return nil, err
		}

		offers = append(offers, offer)
	}
	return offers, nil
}

// eligibilityRule returns the name of the first eligibility rule the
// installer fails, or "" if they qualify.
func eligibilityRule(promotion *model.Promotion, installer *model.Installer, records []*model.SerialRegistration, now time.Time) string {
	e := promotion.Eligibility
	if e.InstallerStatus != "" && installer.Status != e.InstallerStatus {
		return "installer_status"
	}
	if len(records) < e.MinInstallations {
		return "min_installations"
	}
	if e.NewInstallersOnly && now.Sub(installer.JoinedAt) > newInstallerWindow {
		return "new_installers_only"
	}
	return ""
}
