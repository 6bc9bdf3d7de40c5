package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PromotionType string
type PromotionStatus string
type TargetPeriod string
type RewardType string

const (
	PromotionTypeInstallationTarget  PromotionType = "installation_target"
	PromotionTypeMilestone           PromotionType = "milestone"
	PromotionTypeQualityTarget       PromotionType = "quality_target"
	PromotionTypeGeographicExpansion PromotionType = "geographic_expansion"

	PromotionStatusActive   PromotionStatus = "active"
	PromotionStatusInactive PromotionStatus = "inactive"
	PromotionStatusExpired  PromotionStatus = "expired"

	TargetPeriodMonthly   TargetPeriod = "monthly"
	TargetPeriodQuarterly TargetPeriod = "quarterly"
	TargetPeriodLifetime  TargetPeriod = "lifetime"

	RewardTypeCash               RewardType = "cash"
	RewardTypeCashAndRecognition RewardType = "cash_and_recognition"
	RewardTypeRecognition        RewardType = "recognition"
)

// Target describes what an installer has to achieve. Value/Period drive
// installation_target and geographic_expansion promotions; Rating and
// Installations drive quality_target promotions.
type Target struct {
	Type          string       `bson:"type" json:"type"`
	Value         int          `bson:"value" json:"value"`
	Period        TargetPeriod `bson:"period" json:"period"`
	Rating        float64      `bson:"rating,omitempty" json:"rating,omitempty"`
	Installations int          `bson:"installations,omitempty" json:"installations,omitempty"`
}

// Rewards describes the payout granted on completion.
type Rewards struct {
	Type        RewardType `bson:"type" json:"type"`
	Amount      int        `bson:"amount" json:"amount"` // in rupees
	Description string     `bson:"description" json:"description"`
}

// Eligibility restricts who may join a promotion. An empty InstallerStatus
// means any status qualifies.
type Eligibility struct {
	MinInstallations  int    `bson:"min_installations" json:"min_installations"`
	InstallerStatus   string `bson:"installer_status" json:"installer_status"`
	NewInstallersOnly bool   `bson:"new_installers_only" json:"new_installers_only"`
}

// Promotion represents a time-boxed reward campaign.
type Promotion struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Type        PromotionType      `bson:"type" json:"type"`
	Status      PromotionStatus    `bson:"status" json:"status"`
	StartDate   time.Time          `bson:"start_date" json:"start_date"`
	EndDate     time.Time          `bson:"end_date" json:"end_date"`
	Target      Target             `bson:"target" json:"target"`
	Rewards     Rewards            `bson:"rewards" json:"rewards"`
	Eligibility Eligibility        `bson:"eligibility" json:"eligibility"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ActiveAt reports whether the promotion is open at the given instant.
func (p *Promotion) ActiveAt(now time.Time) bool {
	return p.Status == PromotionStatusActive &&
		!now.Before(p.StartDate) && !now.After(p.EndDate)
}

// CreatePromotionRequest is the payload for creating a promotion.
type CreatePromotionRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        PromotionType   `json:"type"`
	Status      PromotionStatus `json:"status"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	Target      Target          `json:"target"`
	Rewards     Rewards         `json:"rewards"`
	Eligibility Eligibility     `json:"eligibility"`
}

// UpdatePromotionRequest is a partial patch; nil fields are left untouched.
type UpdatePromotionRequest struct {
	Title       *string          `json:"title,omitempty"`
	Description *string          `json:"description,omitempty"`
	Type        *PromotionType   `json:"type,omitempty"`
	Status      *PromotionStatus `json:"status,omitempty"`
	StartDate   *time.Time       `json:"start_date,omitempty"`
	EndDate     *time.Time       `json:"end_date,omitempty"`
	Target      *Target          `json:"target,omitempty"`
	Rewards     *Rewards         `json:"rewards,omitempty"`
	Eligibility *Eligibility     `json:"eligibility,omitempty"`
}
