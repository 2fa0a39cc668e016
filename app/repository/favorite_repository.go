package repository

import (
	"errors"

	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository instance
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add stores a favorite; adding the same title twice is a no-op.
func (r *favoriteRepository) Add(fav *models.Favorite) error {
	exists, err := r.IsFavorite(fav.UserID, fav.IMDbID)
	if err != nil || exists {
		return err
	}
	return r.db.Create(fav).Error
}

func (r *favoriteRepository) Remove(userID uint, imdbID string) error {
	return r.db.Where("user_id = ? AND imdb_id = ?", userID, imdbID).
		Delete(&models.Favorite{}).Error
}

func (r *favoriteRepository) IsFavorite(userID uint, imdbID string) (bool, error) {
	var fav models.Favorite
	err := r.db.Where("user_id = ? AND imdb_id = ?", userID, imdbID).First(&fav).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *favoriteRepository) ListByUserID(userID uint) ([]models.Favorite, error) {
	var favs []models.Favorite
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&favs).Error
	return favs, err
}

func (r *favoriteRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
