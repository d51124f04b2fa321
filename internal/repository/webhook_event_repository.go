package repository

import (
	"errors"

	"github.com/drivetimetales/dtt-backend/internal/models"
	"gorm.io/gorm"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{
		db: db,
	}
}

func (r *WebhookEventRepository) WithTx(tx *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: tx}
}

// Seen reports whether this Stripe event id was already applied.
func (r *WebhookEventRepository) Seen(stripeEventID string) (bool, error) {
	var event models.WebhookEvent
	err := r.db.Where("stripe_event_id = ?", stripeEventID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Record inserts the event id. Must run inside the same transaction as the
// mutation it guards so a replay can never double-apply.
func (r *WebhookEventRepository) Record(stripeEventID, eventType string) error {
	return r.db.Create(&models.WebhookEvent{
		StripeEventID: stripeEventID,
		Type:          eventType,
	}).Error
}
