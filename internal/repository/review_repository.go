package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{
		db: db,
	}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *ReviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.First(&review, id).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) GetByUserAndStory(userID, storyID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) ListByStory(storyID uint, limit int) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("story_id = ?", storyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) AverageForStory(storyID uint) (float64, int64, error) {
	var count int64
	if err := r.db.Model(&models.Review{}).Where("story_id = ?", storyID).Count(&count).Error; err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, nil
	}
	var avg float64
	err := r.db.Model(&models.Review{}).
		Where("story_id = ?", storyID).
		Select("AVG(rating)").
		Scan(&avg).Error
	return avg, count, err
}

func (r *ReviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}
