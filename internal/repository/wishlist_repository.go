package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type WishlistRepository struct {
	db *gorm.DB
}

func NewWishlistRepository(db *gorm.DB) *WishlistRepository {
	return &WishlistRepository{
		db: db,
	}
}

func (r *WishlistRepository) Create(item *models.WishlistItem) error {
	return r.db.Create(item).Error
}

func (r *WishlistRepository) Exists(userID, storyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.WishlistItem{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	return count > 0, err
}

func (r *WishlistRepository) ListByUser(userID uint) ([]models.WishlistEntry, error) {
	var items []models.WishlistItem
	err := r.db.Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	entries := make([]models.WishlistEntry, 0, len(items))
	for _, item := range items {
		var story models.Story
		if err := r.db.First(&story, item.StoryID).Error; err != nil {
			return nil, err
		}
		entries = append(entries, models.WishlistEntry{
			Story:   story,
			AddedAt: item.AddedAt,
		})
	}
	return entries, nil
}

func (r *WishlistRepository) Delete(userID, storyID uint) error {
	res := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
