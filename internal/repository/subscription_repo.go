package repository

import (
	"errors"

	"clamio/internal/models"

	"gorm.io/gorm"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByUser returns the user's subscription row, or nil when none exists.
func (r *SubscriptionRepository) GetByUser(userID uint) (*models.PushSubscription, error) {
	var sub models.PushSubscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert writes the subscription row for sub.UserID, creating it when absent.
func (r *SubscriptionRepository) Upsert(sub *models.PushSubscription) error {
	var existing models.PushSubscription
	err := r.db.Where("user_id = ?", sub.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(sub).Error
	}
	if err != nil {
		return err
	}
	sub.ID = existing.ID
	sub.CreatedAt = existing.CreatedAt
	return r.db.Save(sub).Error
}

func (r *SubscriptionRepository) SetPermission(userID uint, permission string) error {
	return r.db.Model(&models.PushSubscription{}).Where("user_id = ?", userID).
		Update("permission", permission).Error
}

func (r *SubscriptionRepository) SetFallbackEnabled(userID uint, enabled bool) error {
	return r.db.Model(&models.PushSubscription{}).Where("user_id = ?", userID).
		Update("fallback_enabled", enabled).Error
}

// Disable turns off both delivery channels without deleting the row, so the
// last reported permission survives.
func (r *SubscriptionRepository) Disable(userID uint) error {
	return r.db.Model(&models.PushSubscription{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{"enabled": false, "fallback_enabled": false, "endpoint": "", "p256dh": "", "auth": ""}).Error
}

// ListActive returns subscription rows with at least one channel enabled.
func (r *SubscriptionRepository) ListActive() ([]models.PushSubscription, error) {
	var subs []models.PushSubscription
	err := r.db.Where("enabled = ? OR fallback_enabled = ?", true, true).Find(&subs).Error
	return subs, err
}
