package repository

import (
	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) ListByUserID(userID uint) ([]models.PayPalSubscription, error) {
	var subs []models.PayPalSubscription
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) ListAll(offset, limit int) ([]models.PayPalSubscription, error) {
	var subs []models.PayPalSubscription
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.PayPalSubscription{}).Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&models.PayPalSubscription{}).
		Where("status = ?", models.PayPalStatusActive).
		Count(&count).Error
	return count, err
}

func (r *subscriptionRepository) ListLegacySubscribers(offset, limit int) ([]models.Subscriber, error) {
	var subs []models.Subscriber
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

func (r *subscriptionRepository) CountLegacySubscribed() (int64, error) {
	var count int64
	err := r.db.Model(&models.Subscriber{}).Where("subscribed = ?", true).Count(&count).Error
	return count, err
}
