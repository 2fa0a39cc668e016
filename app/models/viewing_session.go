package models

import "time"

// ViewingSession records one playback session for admin watch-time stats.
type ViewingSession struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	IMDbID         string     `gorm:"column:imdb_id;type:varchar(20);not null;index" json:"imdb_id"`
	Device         string     `gorm:"type:varchar(50)" json:"device"`
	SessionStart   time.Time  `gorm:"not null;index" json:"session_start"`
	SessionEnd     *time.Time `gorm:"type:timestamp;default:null" json:"session_end,omitempty"`
	TotalWatchTime int64      `gorm:"default:0" json:"total_watch_time"` // seconds
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
