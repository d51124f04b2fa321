package models

import (
	"time"
)

// User credits are either UnlimitedCredits (-1) or >= 0; all mutations go
// through guarded updates in the repository so the invariant holds under
// concurrent requests.
type User struct {
	ID                    uint      `json:"id" gorm:"primaryKey"`
	DisplayName           string    `json:"display_name" gorm:"not null"`
	Email                 string    `json:"email" gorm:"unique;not null"`
	Password              string    `json:"-" gorm:"not null"`
	Credits               int       `json:"credits" gorm:"not null;default:0"`
	SubscriptionType      string    `json:"subscription_type" gorm:"not null;default:'free'"`
	StripeCustomerID      string    `json:"-" gorm:"index"`
	StripeSubscriptionID  string    `json:"-"`
	ReferralCode          string    `json:"referral_code" gorm:"uniqueIndex"`
	ReferralCount         int       `json:"referral_count" gorm:"not null;default:0"`
	ReferralTier          string    `json:"referral_tier" gorm:"not null;default:'starter'"`
	ReferralCreditsEarned int       `json:"referral_credits_earned" gorm:"not null;default:0"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
