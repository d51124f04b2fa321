package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{
		db: db,
	}
}

func (r *ReferralRepository) WithTx(tx *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: tx}
}

func (r *ReferralRepository) Create(referral *models.Referral) error {
	return r.db.Create(referral).Error
}

func (r *ReferralRepository) GetByReferredID(referredID uint) (*models.Referral, error) {
	var referral models.Referral
	err := r.db.Where("referred_id = ?", referredID).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepository) Update(referral *models.Referral) error {
	return r.db.Save(referral).Error
}

func (r *ReferralRepository) ListByReferrer(referrerID uint) ([]models.Referral, error) {
	var referrals []models.Referral
	err := r.db.Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

func (r *ReferralRepository) CountCompleted(referrerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Referral{}).
		Where("referrer_id = ? AND status = ?", referrerID, models.ReferralStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *ReferralRepository) GetTiers() ([]models.ReferralTier, error) {
	var tiers []models.ReferralTier
	err := r.db.Order("min_referrals ASC").Find(&tiers).Error
	return tiers, err
}

// TierFor resolves the highest tier whose threshold the count has reached.
func (r *ReferralRepository) TierFor(referralCount int) (*models.ReferralTier, error) {
	var tier models.ReferralTier
	err := r.db.Where("min_referrals <= ?", referralCount).
		Order("min_referrals DESC").
		First(&tier).Error
	if err != nil {
		return nil, err
	}
	return &tier, nil
}
