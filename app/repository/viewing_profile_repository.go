package repository

import (
	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

type viewingProfileRepository struct {
	db *gorm.DB
}

// NewViewingProfileRepository creates a new viewing profile repository
// instance
func NewViewingProfileRepository(db *gorm.DB) ViewingProfileRepository {
	return &viewingProfileRepository{db: db}
}

func (r *viewingProfileRepository) Create(profile *models.ViewingProfile) error {
	return r.db.Create(profile).Error
}

func (r *viewingProfileRepository) GetByID(userID, id uint) (*models.ViewingProfile, error) {
	var p models.ViewingProfile
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListByUserID returns the account's profiles, main profile first, then in
// creation order.
func (r *viewingProfileRepository) ListByUserID(userID uint) ([]models.ViewingProfile, error) {
	var profiles []models.ViewingProfile
	err := r.db.Where("user_id = ?", userID).
		Order("is_main DESC").
		Order("created_at ASC").
		Find(&profiles).Error
	return profiles, err
}

func (r *viewingProfileRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ViewingProfile{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *viewingProfileRepository) Update(profile *models.ViewingProfile) error {
	return r.db.Save(profile).Error
}

func (r *viewingProfileRepository) Delete(userID, id uint) error {
	return r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ViewingProfile{}).Error
}
