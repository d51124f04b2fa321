package models

import (
	"time"
)

const (
	NewsEpisodeStatusGenerating = "generating"
	NewsEpisodeStatusPublished  = "published"
	NewsEpisodeStatusFailed     = "failed"
)

// NewsSettings is a singleton row controlling the briefing pipeline.
type NewsSettings struct {
	ID                 uint      `json:"id" gorm:"primaryKey"`
	MorningTime        string    `json:"morning_time" gorm:"default:'06:00'"`
	MiddayTime         string    `json:"midday_time" gorm:"default:'12:00'"`
	EveningTime        string    `json:"evening_time" gorm:"default:'18:00'"`
	AutoGenerate       bool      `json:"auto_generate" gorm:"default:false"`
	StoriesPerSection  int       `json:"stories_per_section" gorm:"default:5"`
	TargetDurationMins int       `json:"target_duration_mins" gorm:"default:10"`
	AnchorVoiceID      string    `json:"anchor_voice_id"`
	AnchorVoiceName    string    `json:"anchor_voice_name" gorm:"default:'Rachel'"`
	ElevenLabsAPIKey   string    `json:"-"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultNewsSettings seeds the singleton row on first read.
func DefaultNewsSettings() NewsSettings {
	return NewsSettings{
		MorningTime:        "06:00",
		MiddayTime:         "12:00",
		EveningTime:        "18:00",
		StoriesPerSection:  5,
		TargetDurationMins: 10,
		AnchorVoiceName:    "Rachel",
	}
}

// NewsEpisode is one generated briefing; unique per (date, edition).
type NewsEpisode struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EditionDate  string    `json:"edition_date" gorm:"not null;uniqueIndex:idx_edition"`
	Edition      string    `json:"edition" gorm:"not null;uniqueIndex:idx_edition"`
	Title        string    `json:"title" gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:'generating'"`
	Script       string    `json:"-" gorm:"type:text"`
	AudioKey     string    `json:"-"`
	AudioURL     string    `json:"audio_url" gorm:"-"`
	DurationMins int       `json:"duration_mins"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewsAccess grants a user the daily briefing feed (bundled with paid plans).
type NewsAccess struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt time.Time  `json:"created_at"`
}

const (
	NewsDeliveryStatusQueued    = "queued"
	NewsDeliveryStatusDelivered = "delivered"
)

// NewsDeliveryQueue records which timezone/edition pairs the scheduler has
// produced, so an hourly cron pass never generates the same briefing twice.
type NewsDeliveryQueue struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Timezone     string    `json:"timezone" gorm:"not null;uniqueIndex:idx_tz_edition"`
	EditionDate  string    `json:"edition_date" gorm:"not null;uniqueIndex:idx_tz_edition"`
	Edition      string    `json:"edition" gorm:"not null;uniqueIndex:idx_tz_edition"`
	EpisodeID    uint      `json:"episode_id"`
	Status       string    `json:"status" gorm:"not null;default:'queued'"`
	ScheduledFor time.Time `json:"scheduled_for"`
	CreatedAt    time.Time `json:"created_at"`
}

type GenerateNewsRequest struct {
	Edition         string `json:"edition"`
	ForceRegenerate bool   `json:"force_regenerate"`
}

type UpdateNewsSettingsRequest struct {
	MorningTime        *string `json:"morning_time"`
	MiddayTime         *string `json:"midday_time"`
	EveningTime        *string `json:"evening_time"`
	AutoGenerate       *bool   `json:"auto_generate"`
	StoriesPerSection  *int    `json:"stories_per_section" validate:"omitempty,min=1,max=10"`
	TargetDurationMins *int    `json:"target_duration_mins" validate:"omitempty,min=1,max=30"`
	AnchorVoiceName    *string `json:"anchor_voice_name"`
	ElevenLabsAPIKey   *string `json:"elevenlabs_api_key"`
}

// NewsSettingsResponse masks secrets on read.
type NewsSettingsResponse struct {
	Settings        NewsSettings `json:"settings"`
	HasAPIKey       bool         `json:"has_api_key"`
	AvailableVoices []string     `json:"available_voices"`
}
