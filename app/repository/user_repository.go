package repository

import (
	"time"

	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByActivationToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("activation_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByResetToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *userRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	like := "%" + query + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", like, like).
		Order("created_at DESC").
		Limit(100).
		Find(&users).Error
	return users, err
}

// GetWithSubscriptions loads a user page and enriches each row with the
// profile's denormalized subscription fields and accumulated watch time.
func (r *userRepository) GetWithSubscriptions(offset, limit int) ([]UserWithSubscription, error) {
	users, err := r.List(offset, limit)
	if err != nil {
		return nil, err
	}
	return r.enrich(users)
}

func (r *userRepository) SearchWithSubscriptions(query string) ([]UserWithSubscription, error) {
	users, err := r.Search(query)
	if err != nil {
		return nil, err
	}
	return r.enrich(users)
}

func (r *userRepository) enrich(users []models.User) ([]UserWithSubscription, error) {
	rows := make([]UserWithSubscription, 0, len(users))
	for _, u := range users {
		row := UserWithSubscription{User: u}

		var profile models.Profile
		if err := r.db.Where("user_id = ?", u.ID).First(&profile).Error; err == nil {
			row.Profile = &profile
			row.SubscriptionTier = profile.SubscriptionTier
			row.Provider = profile.SubscriptionProvider
		}

		var watched int64
		r.db.Model(&models.ViewingSession{}).
			Where("user_id = ?", u.ID).
			Select("COALESCE(SUM(total_watch_time), 0)").
			Scan(&watched)
		row.TotalWatchTime = watched

		rows = append(rows, row)
	}
	return rows, nil
}
