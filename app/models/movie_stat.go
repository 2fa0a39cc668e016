package models

import "time"

// MovieStat holds aggregated playback counters per catalog title. Rows are
// written in batches by the counter flusher, not per request.
type MovieStat struct {
	ImdbID       string    `gorm:"primaryKey;type:varchar(20)" json:"imdb_id"`
	PlayCount    uint64    `gorm:"default:0" json:"play_count"`
	TrailerCount uint64    `gorm:"default:0" json:"trailer_count"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MovieStat) TableName() string {
	return "movie_stats"
}
