package repository

import (
	"errors"

	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository instance
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var p models.Profile
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreate returns the user's profile, creating a default one on first
// access.
func (r *profileRepository) GetOrCreate(userID uint, displayName string) (*models.Profile, error) {
	p, err := r.GetByUserID(userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p = &models.Profile{
		UserID:             userID,
		DisplayName:        displayName,
		ProfileType:        "adult",
		SubscriptionStatus: models.ProfileSubscriptionNone,
		IsActive:           true,
	}
	if err := r.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepository) CountWithActiveSubscription() (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).
		Where("subscription_status = ?", models.ProfileSubscriptionActive).
		Count(&count).Error
	return count, err
}

func (r *profileRepository) CountByTier(tier string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).
		Where("subscription_tier = ? AND subscription_status = ?", tier, models.ProfileSubscriptionActive).
		Count(&count).Error
	return count, err
}
