// Package omdb is a thin client for the OMDb movie metadata API with a
// Redis cache in front of it.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

const defaultBaseURL = "https://www.omdbapi.com/"

const cacheTTL = 30 * time.Minute

var ErrNotFound = errors.New("omdb: no results")

// Movie is the detail payload for a single title.
type Movie struct {
	Title    string `json:"Title"`
	Year     string `json:"Year"`
	Rated    string `json:"Rated"`
	Released string `json:"Released"`
	Runtime  string `json:"Runtime"`
	Genre    string `json:"Genre"`
	Director string `json:"Director"`
	Actors   string `json:"Actors"`
	Plot     string `json:"Plot"`
	Poster   string `json:"Poster"`
	Rating   string `json:"imdbRating"`
	ImdbID   string `json:"imdbID"`
	Type     string `json:"Type"`
	Response string `json:"Response"`
	Error    string `json:"Error,omitempty"`
}

// SearchResult is one row of a title search.
type SearchResult struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	ImdbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

type searchResponse struct {
	Search       []SearchResult `json:"Search"`
	TotalResults string         `json:"totalResults"`
	Response     string         `json:"Response"`
	Error        string         `json:"Error,omitempty"`
}

// SearchPage bundles one page of search results with the total count.
type SearchPage struct {
	Results      []SearchResult `json:"results"`
	TotalResults string         `json:"total_results"`
}

type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:     apiKey,
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func NewClientFromEnv() *Client {
	c := NewClient(env.GetEnv("OMDB_API_KEY", ""))
	c.BaseURL = env.GetEnv("OMDB_API_BASE_URL", defaultBaseURL)
	return c
}

// Search queries titles by free text. Results are cached per query and page.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	cacheKey := fmt.Sprintf("omdb_search_%s_%d", query, page)
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var p SearchPage
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			return &p, nil
		}
	}

	params := url.Values{}
	params.Set("apikey", c.APIKey)
	params.Set("s", query)
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("type", "movie")

	var resp searchResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	if resp.Response == "False" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, resp.Error)
	}

	p := &SearchPage{Results: resp.Search, TotalResults: resp.TotalResults}
	if data, err := json.Marshal(p); err == nil {
		_ = cache.Set(cacheKey, string(data), cacheTTL)
	}
	return p, nil
}

// MovieByID fetches the full detail record for an IMDb ID.
func (c *Client) MovieByID(ctx context.Context, imdbID string) (*Movie, error) {
	cacheKey := "omdb_movie_" + imdbID
	if cached, err := cache.Get(cacheKey); err == nil && cached != "" {
		var m Movie
		if err := json.Unmarshal([]byte(cached), &m); err == nil {
			return &m, nil
		}
	}

	params := url.Values{}
	params.Set("apikey", c.APIKey)
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var m Movie
	if err := c.get(ctx, params, &m); err != nil {
		return nil, err
	}
	if m.Response == "False" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, m.Error)
	}

	if data, err := json.Marshal(&m); err == nil {
		_ = cache.Set(cacheKey, string(data), cacheTTL)
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("omdb request: %w", err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("omdb request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("omdb request failed with status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("omdb decode: %w", err)
	}
	return nil
}
