package models

import (
	"time"
)

const (
	ReferralStatusPending   = "pending"
	ReferralStatusCompleted = "completed"
)

// Referral is an append-only log entry; aggregate counters live on the
// referring user.
type Referral struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ReferrerID  uint       `json:"referrer_id" gorm:"not null;index"`
	ReferredID  uint       `json:"referred_id" gorm:"not null;uniqueIndex"`
	Status      string     `json:"status" gorm:"not null;default:'pending'"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ReferralTier defines the reward schedule; seeded at boot, editable in the
// database.
type ReferralTier struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	TierName      string `json:"tier_name" gorm:"unique;not null"`
	MinReferrals  int    `json:"min_referrals" gorm:"not null"`
	RewardCredits int    `json:"reward_credits" gorm:"not null"`
}

type ProcessReferralRequest struct {
	ReferralCode string `json:"referral_code" validate:"required"`
}

type ReferralStats struct {
	ReferralCode  string        `json:"referral_code"`
	ReferralCount int           `json:"referral_count"`
	ReferralTier  string        `json:"referral_tier"`
	CreditsEarned int           `json:"credits_earned"`
	Referrals     []Referral    `json:"referrals"`
	CurrentTier   *ReferralTier `json:"current_tier,omitempty"`
	NextTier      *ReferralTier `json:"next_tier,omitempty"`
	Tiers         []ReferralTier `json:"tiers"`
}

type ReferralCodeCheck struct {
	Valid        bool   `json:"valid"`
	ReferrerName string `json:"referrer_name,omitempty"`
	Code         string `json:"code,omitempty"`
}
