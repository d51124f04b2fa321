package models

import (
	"time"
)

// UserStory is an entitlement: a permanent grant of one story to one user.
// The composite unique index guarantees a story is owned at most once.
type UserStory struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_story"`
	StoryID         uint      `json:"story_id" gorm:"not null;uniqueIndex:idx_user_story"`
	ProgressSeconds int       `json:"progress_seconds" gorm:"not null;default:0"`
	Completed       bool      `json:"completed" gorm:"not null;default:false"`
	PurchasedAt     time.Time `json:"purchased_at"`
}

type PurchaseStoryRequest struct {
	StoryID uint `json:"story_id" validate:"required"`
}

type PurchaseStoryResponse struct {
	Message          string `json:"message"`
	CreditsSpent     int    `json:"credits_spent"`
	RemainingCredits int    `json:"remaining_credits"`
}

type UpdateProgressRequest struct {
	ProgressSeconds int  `json:"progress_seconds" validate:"gte=0"`
	Completed       bool `json:"completed"`
}

// LibraryEntry joins an entitlement with its story for listing.
type LibraryEntry struct {
	Story           Story     `json:"story"`
	ProgressSeconds int       `json:"progress_seconds"`
	Completed       bool      `json:"completed"`
	PurchasedAt     time.Time `json:"purchased_at"`
}
