package repository

import (
	"github.com/drivetimetales/dtt-backend/internal/models"
	"github.com/drivetimetales/dtt-backend/pkg/catalog"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// WithTx binds a copy of the repository to an open transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByStripeCustomerID(customerID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("stripe_customer_id = ?", customerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*models.User, error) {
	var user models.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) SetStripeCustomerID(userID uint, customerID string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("stripe_customer_id", customerID).Error
}

// SpendCredits debits atomically: the balance guard is part of the UPDATE, so
// two concurrent purchases can never both succeed on one balance. Returns
// false when the balance was insufficient.
func (r *UserRepository) SpendCredits(userID uint, amount int) (bool, error) {
	res := r.db.Model(&models.User{}).
		Where("id = ? AND credits >= ?", userID, amount).
		Update("credits", gorm.Expr("credits - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AddCredits grants atomically. The unlimited sentinel is excluded by the
// WHERE clause, so a -1 balance stays -1.
func (r *UserRepository) AddCredits(userID uint, amount int) error {
	return r.db.Model(&models.User{}).
		Where("id = ? AND credits <> ?", userID, catalog.UnlimitedCredits).
		Update("credits", gorm.Expr("credits + ?", amount)).Error
}

// SetSubscription overwrites the plan and its fixed allotment (not additive).
func (r *UserRepository) SetSubscription(userID uint, plan string, credits int, subscriptionID string) error {
	updates := map[string]interface{}{
		"subscription_type": plan,
		"credits":           credits,
	}
	if subscriptionID != "" {
		updates["stripe_subscription_id"] = subscriptionID
	}
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error
}

// ResetToFree downgrades after a subscription ends: free plan, zero credits.
func (r *UserRepository) ResetToFree(userID uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"subscription_type":      string(catalog.PlanFree),
		"credits":                0,
		"stripe_subscription_id": "",
	}).Error
}

// AddReferralReward bumps the referrer's aggregates alongside the credit
// grant; called from the referral transaction.
func (r *UserRepository) AddReferralReward(userID uint, tier string, credits int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"referral_count":          gorm.Expr("referral_count + 1"),
		"referral_tier":           tier,
		"referral_credits_earned": gorm.Expr("referral_credits_earned + ?", credits),
	}).Error
}
