package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type StoryRepository struct {
	db *gorm.DB
}

func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{
		db: db,
	}
}

func (r *StoryRepository) Create(story *models.Story) error {
	return r.db.Create(story).Error
}

func (r *StoryRepository) GetByID(id uint) (*models.Story, error) {
	var story models.Story
	err := r.db.First(&story, id).Error
	if err != nil {
		return nil, err
	}
	return &story, nil
}

// List applies the public catalog filters, newest first.
func (r *StoryRepository) List(filter models.StoryFilter) ([]models.Story, error) {
	query := r.db.Model(&models.Story{}).Order("created_at DESC")

	if filter.Genre != "" && filter.Genre != "all" {
		query = query.Where("genre = ?", filter.Genre)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var stories []models.Story
	err := query.Find(&stories).Error
	return stories, err
}

func (r *StoryRepository) IncrementPlayCount(id uint) error {
	return r.db.Model(&models.Story{}).
		Where("id = ?", id).
		Update("play_count", gorm.Expr("play_count + 1")).Error
}

// UpdateAverageRating refreshes the rating aggregate from the reviews table.
func (r *StoryRepository) UpdateAverageRating(storyID uint) error {
	return r.db.Model(&models.Story{}).
		Where("id = ?", storyID).
		Update("average_rating", gorm.Expr(
			"COALESCE((SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE story_id = ?), 0)", storyID,
		)).Error
}
