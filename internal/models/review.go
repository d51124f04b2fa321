package models

import (
	"time"
)

// Review requires prior ownership; at most one per (user, story).
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_review"`
	StoryID   uint      `json:"story_id" gorm:"not null;uniqueIndex:idx_user_review"`
	Rating    int       `json:"rating" gorm:"not null"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	StoryID uint   `json:"story_id" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ReviewListResponse struct {
	Reviews       []Review `json:"reviews"`
	AverageRating float64  `json:"average_rating"`
	TotalReviews  int      `json:"total_reviews"`
}
