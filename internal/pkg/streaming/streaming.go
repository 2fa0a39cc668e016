// Package streaming resolves playback sources and trailers for titles.
// The built-in catalog carries demo sources; when a media bucket is
// configured the mediastore takes precedence for titles it hosts.
package streaming

import (
	"context"
	"log"

	"github.com/WatchHubTV/WatchHub/internal/pkg/mediastore"
)

type Source struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	Quality   string   `json:"quality"`
	Language  string   `json:"language"`
	Subtitles []string `json:"subtitles,omitempty"`
}

var qualityOrder = []string{"4K", "HD", "SD"}

var demoSources = map[string][]Source{
	"tt0468569": {
		{ID: "1", Name: "Demo Stream", URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/BigBuckBunny.mp4", Quality: "HD", Language: "en", Subtitles: []string{"es", "en"}},
	},
	"tt0111161": {
		{ID: "2", Name: "Demo Stream", URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ElephantsDream.mp4", Quality: "HD", Language: "en", Subtitles: []string{"es", "en"}},
	},
	"tt0137523": {
		{ID: "3", Name: "Demo Stream", URL: "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/ForBiggerBlazes.mp4", Quality: "HD", Language: "en", Subtitles: []string{"es", "en"}},
	},
}

var fallbackSource = Source{
	ID:        "demo",
	Name:      "Demo Stream",
	URL:       "https://commondatastorage.googleapis.com/gtv-videos-bucket/sample/Sintel.mp4",
	Quality:   "HD",
	Language:  "en",
	Subtitles: []string{"es", "en"},
}

var trailers = map[string]string{
	"tt0468569": "https://www.youtube.com/watch?v=EXeTwQWrcwY",
	"tt0111161": "https://www.youtube.com/watch?v=6hB3S9bIaco",
	"tt0137523": "https://www.youtube.com/watch?v=qtRKdVHc-cE",
}

type Service struct {
	media *mediastore.Store
}

// NewService builds the resolver. media may be nil when no bucket is
// configured.
func NewService(media *mediastore.Store) *Service {
	return &Service{media: media}
}

func NewServiceFromEnv() *Service {
	media, err := mediastore.NewFromEnv(context.Background())
	if err != nil {
		log.Printf("media store unavailable, using demo catalog only: %v", err)
		media = nil
	}
	return NewService(media)
}

// Sources returns the playback sources for a title, never an empty list.
func (s *Service) Sources(ctx context.Context, imdbID string) []Source {
	if s.media != nil {
		if url, err := s.media.PlaybackURL(ctx, imdbID); err == nil && url != "" {
			return []Source{{ID: "media", Name: "WatchHub", URL: url, Quality: "HD", Language: "es", Subtitles: []string{"es", "en"}}}
		}
	}
	if sources, ok := demoSources[imdbID]; ok {
		return sources
	}
	return []Source{fallbackSource}
}

// TrailerURL returns the trailer for a title, or "" when none is known.
func (s *Service) TrailerURL(imdbID string) string {
	return trailers[imdbID]
}

// BestSource picks the highest-quality source for a title.
func (s *Service) BestSource(ctx context.Context, imdbID string) Source {
	sources := s.Sources(ctx, imdbID)
	for _, q := range qualityOrder {
		for _, src := range sources {
			if src.Quality == q {
				return src
			}
		}
	}
	return sources[0]
}
