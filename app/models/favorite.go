package models

import "time"

// Favorite is an entry on a user's list, keyed by the external IMDb id.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:ux_favorites_user_imdb,unique,priority:1" json:"user_id"`
	IMDbID    string    `gorm:"column:imdb_id;type:varchar(20);not null;index:ux_favorites_user_imdb,unique,priority:2" json:"imdb_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	PosterURL string    `gorm:"type:varchar(500);default:null" json:"poster_url,omitempty"`
	Year      string    `gorm:"type:varchar(10)" json:"year"`
	Genre     string    `gorm:"type:varchar(200)" json:"genre"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
