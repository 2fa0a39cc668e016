package streaming

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

func TestSourcesKnownTitle(t *testing.T) {
	s := NewService(nil)
	sources := s.Sources(context.Background(), "tt0468569")
	require.Len(t, sources, 1)
	assert.Contains(t, sources[0].URL, "BigBuckBunny")
}

func TestSourcesFallback(t *testing.T) {
	s := NewService(nil)
	sources := s.Sources(context.Background(), "tt9999999")
	require.Len(t, sources, 1)
	assert.Equal(t, "demo", sources[0].ID)
}

func TestTrailerURL(t *testing.T) {
	s := NewService(nil)
	assert.NotEmpty(t, s.TrailerURL("tt0111161"))
	assert.Empty(t, s.TrailerURL("tt9999999"))
}

func TestBestSourcePrefersHigherQuality(t *testing.T) {
	s := NewService(nil)
	best := s.BestSource(context.Background(), "tt0137523")
	assert.Equal(t, "HD", best.Quality)
}

func newTestTracker(t *testing.T) *ProgressTracker {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewProgressTracker(clientstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
}

func TestProgressSaveAndLoad(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, 1, "tt0111161", 600, 7200))

	p, err := tr.Load(ctx, 1, "tt0111161")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 600.0, p.CurrentTime)
	assert.False(t, p.Completed)
	assert.True(t, p.ShouldResume())
	assert.InDelta(t, 8.33, p.Percentage(), 0.01)
}

func TestProgressCompletionAtNinetyPercent(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, 1, "tt0111161", 6480, 7200))
	p, err := tr.Load(ctx, 1, "tt0111161")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Completed)
	assert.False(t, p.ShouldResume())
}

func TestProgressZeroDurationIgnored(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, 1, "tt0111161", 30, 0))
	p, err := tr.Load(ctx, 1, "tt0111161")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProgressClear(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, 1, "tt0111161", 600, 7200))
	require.NoError(t, tr.Clear(ctx, 1, "tt0111161"))

	p, err := tr.Load(ctx, 1, "tt0111161")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestContinueWatching(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	// Resumable, completed, and below-threshold entries.
	require.NoError(t, tr.Save(ctx, 1, "tt0001", 600, 7200))
	require.NoError(t, tr.Save(ctx, 1, "tt0002", 7000, 7200))
	require.NoError(t, tr.Save(ctx, 1, "tt0003", 10, 7200))
	// Another user's entry stays invisible.
	require.NoError(t, tr.Save(ctx, 2, "tt0004", 600, 7200))

	entries, err := tr.ContinueWatching(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tt0001", entries[0].VideoID)
}

func TestContinueWatchingOrdersByRecency(t *testing.T) {
	tr := newTestTracker(t)
	ctx := context.Background()

	require.NoError(t, tr.Save(ctx, 1, "tt0001", 600, 7200))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, tr.Save(ctx, 1, "tt0002", 600, 7200))

	entries, err := tr.ContinueWatching(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "tt0002", entries[0].VideoID)
}
