package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ParticipationStatus string
type RewardStatus string

const (
	ParticipationStatusActive    ParticipationStatus = "active"
	ParticipationStatusCompleted ParticipationStatus = "completed"

	RewardStatusPending  RewardStatus = "pending"
	RewardStatusPaid     RewardStatus = "paid"
	RewardStatusRejected RewardStatus = "rejected"
)

// ProgressSnapshot is the last computed progress for a participation.
// Percentage is always within [0, 100].
type ProgressSnapshot struct {
	Current           int        `bson:"current" json:"current"`
	Target            int        `bson:"target" json:"target"`
	Percentage        float64    `bson:"percentage" json:"percentage"`
	IsCompleted       bool       `bson:"is_completed" json:"is_completed"`
	CompletedAt       *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	CountingStartDate time.Time  `bson:"counting_start_date" json:"counting_start_date"`
	ValidRecords      int        `bson:"valid_records" json:"valid_records"`
}

// Participation is one installer's enrollment in one promotion. The
// (promotion_id, installer_id) pair is unique; see database.CreateIndexes.
//
// Invariants: CompletedAt is non-nil iff Status is completed, and
// RewardClaimed implies Status is completed.
type Participation struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	PromotionID       primitive.ObjectID  `bson:"promotion_id" json:"promotion_id"`
	InstallerID       string              `bson:"installer_id" json:"installer_id"`
	Status            ParticipationStatus `bson:"status" json:"status"`
	JoinedAt          time.Time           `bson:"joined_at" json:"joined_at"`
	CompletedAt       *time.Time          `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Progress          ProgressSnapshot    `bson:"progress" json:"progress"`
	RewardClaimable   bool                `bson:"reward_claimable" json:"reward_claimable"`
	RewardClaimed     bool                `bson:"reward_claimed" json:"reward_claimed"`
	RewardStatus      RewardStatus        `bson:"reward_status,omitempty" json:"reward_status,omitempty"`
	RewardClaimedAt   *time.Time          `bson:"reward_claimed_at,omitempty" json:"reward_claimed_at,omitempty"`
	RewardProcessedAt *time.Time          `bson:"reward_processed_at,omitempty" json:"reward_processed_at,omitempty"`
	RewardProcessedBy string              `bson:"reward_processed_by,omitempty" json:"reward_processed_by,omitempty"`
}

// JoinPromotionRequest is the payload for joining a promotion.
type JoinPromotionRequest struct {
	InstallerID string `json:"installer_id" binding:"required"`
}

// SetRewardStatusRequest is the payload for an administrator processing a reward.
type SetRewardStatusRequest struct {
	Status  RewardStatus `json:"status" binding:"required"`
	AdminID string       `json:"admin_id" binding:"required"`
}

// PromotionOffer pairs a promotion with the querying installer's view of it.
type PromotionOffer struct {
	Promotion       *Promotion        `json:"promotion"`
	Participation   *Participation    `json:"participation,omitempty"`
	Progress        *ProgressSnapshot `json:"progress,omitempty"`
	IsParticipating bool              `json:"is_participating"`
	CanJoin         bool              `json:"can_join"`
}
