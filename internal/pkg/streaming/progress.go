package streaming

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

// A video counts as finished once 90% of it has been watched.
const completionRatio = 0.9

// Resuming only makes sense past the opening seconds.
const resumeThreshold = 30.0

// Progress is the stored playback position for one user and video.
type Progress struct {
	CurrentTime float64   `json:"currentTime"`
	Duration    float64   `json:"duration"`
	LastWatched time.Time `json:"lastWatched"`
	Completed   bool      `json:"completed"`
}

// Percentage returns how much of the video has been watched, capped at 100.
func (p Progress) Percentage() float64 {
	if p.Duration == 0 {
		return 0
	}
	pct := p.CurrentTime / p.Duration * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// ShouldResume reports whether playback should pick up where it left off.
func (p Progress) ShouldResume() bool {
	return p.CurrentTime > resumeThreshold && !p.Completed
}

// ContinueWatchingEntry pairs a video with its saved progress.
type ContinueWatchingEntry struct {
	VideoID  string   `json:"video_id"`
	Progress Progress `json:"progress"`
}

// ProgressTracker persists playback positions in the client store.
type ProgressTracker struct {
	store *clientstore.Store
}

func NewProgressTracker(store *clientstore.Store) *ProgressTracker {
	return &ProgressTracker{store: store}
}

// Save records the playback position. A zero duration is ignored.
func (t *ProgressTracker) Save(ctx context.Context, userID uint, videoID string, currentTime, duration float64) error {
	if videoID == "" || duration == 0 {
		return nil
	}
	p := Progress{
		CurrentTime: currentTime,
		Duration:    duration,
		LastWatched: time.Now(),
		Completed:   currentTime >= duration*completionRatio,
	}
	return t.store.SetJSON(ctx, clientstore.VideoProgressKey(userID, videoID), p)
}

// Load returns the saved position for a video, or nil when there is none.
func (t *ProgressTracker) Load(ctx context.Context, userID uint, videoID string) (*Progress, error) {
	var p Progress
	ok, err := t.store.GetJSON(ctx, clientstore.VideoProgressKey(userID, videoID), &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// Clear drops the saved position so the video restarts from the beginning.
func (t *ProgressTracker) Clear(ctx context.Context, userID uint, videoID string) error {
	return t.store.Delete(ctx, clientstore.VideoProgressKey(userID, videoID))
}

// ContinueWatching lists the user's unfinished videos, most recent first.
func (t *ProgressTracker) ContinueWatching(ctx context.Context, userID uint) ([]ContinueWatchingEntry, error) {
	prefix := fmt.Sprintf("video_progress_%d_", userID)
	keys, err := t.store.Keys(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}

	var entries []ContinueWatchingEntry
	for _, key := range keys {
		var p Progress
		ok, err := t.store.GetJSON(ctx, key, &p)
		if err != nil {
			return nil, err
		}
		if !ok || p.Completed || !p.ShouldResume() {
			continue
		}
		entries = append(entries, ContinueWatchingEntry{
			VideoID:  strings.TrimPrefix(key, prefix),
			Progress: p,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Progress.LastWatched.After(entries[j].Progress.LastWatched)
	})
	return entries, nil
}
