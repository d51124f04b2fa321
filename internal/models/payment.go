package models

import (
	"time"
)

const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
)

const (
	PurchaseTypeCreditPack   = "credit_pack"
	PurchaseTypeSubscription = "subscription"
	PurchaseTypeStory        = "story"
)

// Purchase tracks checkout sessions and settled payments for billing history.
type Purchase struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	Type            string    `json:"type" gorm:"not null"`
	ProductID       string    `json:"product_id" gorm:"not null"`
	AmountCents     int64     `json:"amount_cents" gorm:"not null"`
	CreditsAdded    int       `json:"credits_added" gorm:"not null;default:0"`
	StripeSessionID string    `json:"-" gorm:"uniqueIndex"`
	StripePaymentID string    `json:"-"`
	Status          string    `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WebhookEvent is the processed-event set that makes settlement idempotent:
// a Stripe event id is recorded in the same transaction as its mutation, and
// redeliveries are skipped.
type WebhookEvent struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	StripeEventID string    `json:"stripe_event_id" gorm:"uniqueIndex;not null"`
	Type          string    `json:"type" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateCheckoutSessionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	StoryID   uint   `json:"story_id"`
}

type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type QuickPurchaseRequest struct {
	PackID string `json:"pack_id" validate:"required"`
}

type QuickPurchaseResponse struct {
	Message      string `json:"message"`
	CreditsAdded int    `json:"credits_added"`
	Balance      int    `json:"balance"`
}
