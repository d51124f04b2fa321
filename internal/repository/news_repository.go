package repository

import (
	"errors"
	"time"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{
		db: db,
	}
}

func (r *NewsRepository) WithTx(tx *gorm.DB) *NewsRepository {
	return &NewsRepository{db: tx}
}

// GetSettings returns the singleton settings row, creating it with defaults
// on first use.
func (r *NewsRepository) GetSettings() (*models.NewsSettings, error) {
	var settings models.NewsSettings
	err := r.db.First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			settings = models.DefaultNewsSettings()
			if createErr := r.db.Create(&settings).Error; createErr != nil {
				return nil, createErr
			}
			return &settings, nil
		}
		return nil, err
	}
	return &settings, nil
}

func (r *NewsRepository) SaveSettings(settings *models.NewsSettings) error {
	return r.db.Save(settings).Error
}

func (r *NewsRepository) CreateEpisode(episode *models.NewsEpisode) error {
	return r.db.Create(episode).Error
}

func (r *NewsRepository) GetEpisode(id uint) (*models.NewsEpisode, error) {
	var episode models.NewsEpisode
	err := r.db.First(&episode, id).Error
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (r *NewsRepository) GetEpisodeByEdition(editionDate, edition string) (*models.NewsEpisode, error) {
	var episode models.NewsEpisode
	err := r.db.Where("edition_date = ? AND edition = ?", editionDate, edition).First(&episode).Error
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (r *NewsRepository) UpdateEpisode(episode *models.NewsEpisode) error {
	return r.db.Save(episode).Error
}

func (r *NewsRepository) ListEpisodes(limit int) ([]models.NewsEpisode, error) {
	var episodes []models.NewsEpisode
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&episodes).Error
	return episodes, err
}

func (r *NewsRepository) LatestPublished() (*models.NewsEpisode, error) {
	var episode models.NewsEpisode
	err := r.db.Where("status = ?", models.NewsEpisodeStatusPublished).
		Order("created_at DESC").
		First(&episode).Error
	if err != nil {
		return nil, err
	}
	return &episode, nil
}

func (r *NewsRepository) GrantAccess(userID uint, expiresAt *time.Time) error {
	access := models.NewsAccess{UserID: userID, ExpiresAt: expiresAt}
	return r.db.Where("user_id = ?", userID).
		Assign(models.NewsAccess{ExpiresAt: expiresAt}).
		FirstOrCreate(&access).Error
}

func (r *NewsRepository) RevokeAccess(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.NewsAccess{}).Error
}

func (r *NewsRepository) HasAccess(userID uint, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&models.NewsAccess{}).
		Where("user_id = ? AND (expires_at IS NULL OR expires_at > ?)", userID, now).
		Count(&count).Error
	return count > 0, err
}

func (r *NewsRepository) EnqueueDelivery(entry *models.NewsDeliveryQueue) error {
	return r.db.Create(entry).Error
}

func (r *NewsRepository) DeliveryExists(timezone, editionDate, edition string) (bool, error) {
	var count int64
	err := r.db.Model(&models.NewsDeliveryQueue{}).
		Where("timezone = ? AND edition_date = ? AND edition = ?", timezone, editionDate, edition).
		Count(&count).Error
	return count > 0, err
}

func (r *NewsRepository) DueDeliveries(now time.Time, limit int) ([]models.NewsDeliveryQueue, error) {
	var entries []models.NewsDeliveryQueue
	err := r.db.Where("status = ? AND scheduled_for <= ?", models.NewsDeliveryStatusQueued, now).
		Order("scheduled_for ASC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *NewsRepository) MarkDelivered(id uint) error {
	return r.db.Model(&models.NewsDeliveryQueue{}).
		Where("id = ?", id).
		Update("status", models.NewsDeliveryStatusDelivered).Error
}
