package models

import (
	"time"
)

// WishlistItem marks interest, not ownership.
type WishlistItem struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_wishlist"`
	StoryID uint      `json:"story_id" gorm:"not null;uniqueIndex:idx_user_wishlist"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`
}

type AddWishlistRequest struct {
	StoryID uint `json:"story_id" validate:"required"`
}

type WishlistEntry struct {
	Story   Story     `json:"story"`
	AddedAt time.Time `json:"added_at"`
}
