package repository

import (
	"time"

	"github.com/WatchHubTV/WatchHub/app/models"
	"gorm.io/gorm"
)

type viewingSessionRepository struct {
	db *gorm.DB
}

// NewViewingSessionRepository creates a new viewing session repository instance
func NewViewingSessionRepository(db *gorm.DB) ViewingSessionRepository {
	return &viewingSessionRepository{db: db}
}

func (r *viewingSessionRepository) Create(session *models.ViewingSession) error {
	return r.db.Create(session).Error
}

// End closes a session and records the watched seconds.
func (r *viewingSessionRepository) End(id uint, watched int64) error {
	return r.db.Model(&models.ViewingSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"session_end":      time.Now(),
		"total_watch_time": watched,
	}).Error
}

func (r *viewingSessionRepository) ListByUserID(userID uint, limit int) ([]models.ViewingSession, error) {
	var sessions []models.ViewingSession
	err := r.db.Where("user_id = ?", userID).
		Order("session_start DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}

func (r *viewingSessionRepository) TotalWatchTime(userID uint) (int64, error) {
	var total int64
	err := r.db.Model(&models.ViewingSession{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(total_watch_time), 0)").
		Scan(&total).Error
	return total, err
}
