package billing

import (
	"time"

	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	CreateSubscription(sub *models.PayPalSubscription) error
	UpdateSubscriptionStatus(userID uint, paypalSubscriptionID, status string) error
	LatestActiveSubscription(userID uint) (*models.PayPalSubscription, error)
	GetProfileByUserID(userID uint) (*models.Profile, error)
	UpdateProfileSubscription(userID uint, updates map[string]interface{}) error
	GetSubscriberByUserID(userID uint) (*models.Subscriber, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateSubscription(sub *models.PayPalSubscription) error {
	return r.db.Create(sub).Error
}

func (r *gormRepository) UpdateSubscriptionStatus(userID uint, paypalSubscriptionID, status string) error {
	return r.db.Model(&models.PayPalSubscription{}).
		Where("user_id = ? AND pay_pal_subscription_id = ?", userID, paypalSubscriptionID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *gormRepository) LatestActiveSubscription(userID uint) (*models.PayPalSubscription, error) {
	var sub models.PayPalSubscription
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.PayPalStatusActive).
		Order("created_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetProfileByUserID(userID uint) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) UpdateProfileSubscription(userID uint, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	tx := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *gormRepository) GetSubscriberByUserID(userID uint) (*models.Subscriber, error) {
	var s models.Subscriber
	err := r.db.Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}
