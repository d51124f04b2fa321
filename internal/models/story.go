package models

import (
	"time"
)

// Story is immutable once published except for the rating and play-count
// aggregates.
type Story struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Title         string    `json:"title" gorm:"not null"`
	Author        string    `json:"author" gorm:"not null"`
	Genre         string    `json:"genre" gorm:"not null;index"`
	Description   string    `json:"description"`
	DurationMins  int       `json:"duration_mins" gorm:"not null"`
	DurationLabel string    `json:"duration_label" gorm:"not null"`
	Credits       int       `json:"credits" gorm:"not null"`
	AudioKey      string    `json:"-"`
	SampleKey     string    `json:"sample_key"`
	IsFeatured    bool      `json:"is_featured" gorm:"default:false"`
	IsNew         bool      `json:"is_new" gorm:"default:true"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	PlayCount     int64     `json:"play_count" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PublishStoryRequest struct {
	Title        string `json:"title" validate:"required"`
	Author       string `json:"author" validate:"required"`
	Genre        string `json:"genre" validate:"required"`
	Description  string `json:"description"`
	DurationMins int    `json:"duration_mins" validate:"required,gt=0"`
	Credits      int    `json:"credits" validate:"required,gt=0"`
	AudioKey     string `json:"audio_key"`
	SampleKey    string `json:"sample_key"`
	IsFeatured   bool   `json:"is_featured"`
	IsNew        bool   `json:"is_new"`
}

// StoryFilter narrows the public listing; zero values mean no filter.
type StoryFilter struct {
	Genre    string
	Featured *bool
	Search   string
	Limit    int
}
