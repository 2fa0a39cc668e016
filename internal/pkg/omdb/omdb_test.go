package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
)

func setupTestCache(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func newTestClient(srv *httptest.Server) *Client {
	return &Client{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()}
}

func TestSearch(t *testing.T) {
	setupTestCache(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "batman", r.URL.Query().Get("s"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"Search": []map[string]string{
				{"Title": "Batman Begins", "Year": "2005", "imdbID": "tt0372784", "Type": "movie"},
				{"Title": "The Dark Knight", "Year": "2008", "imdbID": "tt0468569", "Type": "movie"},
			},
			"totalResults": "2",
			"Response":     "True",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	page, err := c.Search(context.Background(), "batman", 1)
	require.NoError(t, err)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "tt0468569", page.Results[1].ImdbID)
	assert.Equal(t, "2", page.TotalResults)

	// Second lookup is served from the cache.
	_, err = c.Search(context.Background(), "batman", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestSearchNoResults(t *testing.T) {
	setupTestCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"Response": "False",
			"Error":    "Movie not found!",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "zzzzzz", 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestMovieByID(t *testing.T) {
	setupTestCache(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "tt0111161", r.URL.Query().Get("i"))
		json.NewEncoder(w).Encode(map[string]string{
			"Title":      "The Shawshank Redemption",
			"Year":       "1994",
			"imdbID":     "tt0111161",
			"imdbRating": "9.3",
			"Response":   "True",
		})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	m, err := c.MovieByID(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, "The Shawshank Redemption", m.Title)
	assert.Equal(t, "9.3", m.Rating)

	_, err = c.MovieByID(context.Background(), "tt0111161")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestMovieByIDNotFound(t *testing.T) {
	setupTestCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"Response": "False",
			"Error":    "Incorrect IMDb ID.",
		})
	}))
	defer srv.Close()

	_, err := newTestClient(srv).MovieByID(context.Background(), "bogus")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestServerErrorSurfaces(t *testing.T) {
	setupTestCache(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Search(context.Background(), "batman", 1)
	assert.Error(t, err)
}
