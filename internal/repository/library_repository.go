package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type LibraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{
		db: db,
	}
}

func (r *LibraryRepository) WithTx(tx *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: tx}
}

func (r *LibraryRepository) Create(entry *models.UserStory) error {
	return r.db.Create(entry).Error
}

func (r *LibraryRepository) Owns(userID, storyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserStory{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	return count > 0, err
}

func (r *LibraryRepository) GetByUserAndStory(userID, storyID uint) (*models.UserStory, error) {
	var entry models.UserStory
	err := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns owned stories joined with progress, newest purchase first.
func (r *LibraryRepository) ListByUser(userID uint) ([]models.LibraryEntry, error) {
	var ownerships []models.UserStory
	err := r.db.Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&ownerships).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.LibraryEntry, 0, len(ownerships))
	for _, o := range ownerships {
		var story models.Story
		if err := r.db.First(&story, o.StoryID).Error; err != nil {
			return nil, err
		}
		entries = append(entries, models.LibraryEntry{
			Story:           story,
			ProgressSeconds: o.ProgressSeconds,
			Completed:       o.Completed,
			PurchasedAt:     o.PurchasedAt,
		})
	}
	return entries, nil
}

func (r *LibraryRepository) UpdateProgress(userID, storyID uint, progressSeconds int, completed bool) error {
	res := r.db.Model(&models.UserStory{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Updates(map[string]interface{}{
			"progress_seconds": progressSeconds,
			"completed":        completed,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
