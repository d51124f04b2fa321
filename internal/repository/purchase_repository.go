package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
	}
}

func (r *PurchaseRepository) WithTx(tx *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: tx}
}

func (r *PurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

func (r *PurchaseRepository) GetBySessionID(sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("stripe_session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) Update(purchase *models.Purchase) error {
	return r.db.Save(purchase).Error
}

func (r *PurchaseRepository) MarkCompleted(sessionID, paymentID string) error {
	return r.db.Model(&models.Purchase{}).
		Where("stripe_session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":            models.PurchaseStatusCompleted,
			"stripe_payment_id": paymentID,
		}).Error
}

func (r *PurchaseRepository) ListByUser(userID uint, limit int) ([]models.Purchase, error) {
	var purchases []models.Purchase
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&purchases).Error
	return purchases, err
}
