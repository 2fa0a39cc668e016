package counter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
	"github.com/WatchHubTV/WatchHub/internal/pkg/database"
)

const (
	moviePlaysKey    = "movie:counters:plays"
	movieTrailersKey = "movie:counters:trailers"
)

// AddMoviePlay increments the pending play counter for a movie in Redis
func AddMoviePlay(imdbID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, moviePlaysKey, imdbID, 1).Err()
}

// AddTrailerView increments the pending trailer view counter for a movie in Redis
func AddTrailerView(imdbID string) error {
	ctx := context.Background()
	return cache.GetClient().HIncrBy(ctx, movieTrailersKey, imdbID, 1).Err()
}

// FlushAll flushes play and trailer counters to the database
func FlushAll() error {
	if err := flushHashToColumn(moviePlaysKey, "play_count"); err != nil {
		return err
	}
	if err := flushHashToColumn(movieTrailersKey, "trailer_count"); err != nil {
		return err
	}
	return nil
}

// flushHashToColumn drains a Redis hash atomically and applies batched increments
// to the movie_stats table. Uses RENAME to a temporary key for atomic drain
// without losing in-flight increments.
func flushHashToColumn(redisKey, column string) error {
	ctx := context.Background()
	rdb := cache.GetClient()

	// Atomically move the hash to a temp key for draining
	tmpKey := fmt.Sprintf("%s:tmp:%d", redisKey, time.Now().UnixNano())
	if err := rdb.Do(ctx, "RENAME", redisKey, tmpKey).Err(); err != nil {
		// If key does not exist, nothing to flush
		if strings.Contains(strings.ToLower(err.Error()), "no such key") {
			return nil
		}
		if err.Error() == "redis: nil" {
			return nil
		}
		return err
	}

	// Ensure cleanup of tmpKey even if later steps fail
	defer rdb.Del(ctx, tmpKey)

	data, err := rdb.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	type pair struct {
		imdbID string
		inc    string
	}
	pairs := make([]pair, 0, len(data))
	for k, v := range data {
		if k == "" || v == "" || v == "0" {
			continue
		}
		pairs = append(pairs, pair{imdbID: k, inc: v})
	}
	if len(pairs) == 0 {
		return nil
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].imdbID < pairs[j].imdbID })

	// Movie rows may not exist yet, so upsert instead of a plain UPDATE.
	// INSERT ... ON DUPLICATE KEY UPDATE <column> = <column> + VALUES(<column>)
	var builder strings.Builder
	args := make([]interface{}, 0, len(pairs)*2)
	builder.WriteString("INSERT INTO movie_stats (imdb_id, ")
	builder.WriteString(column)
	builder.WriteString(") VALUES ")
	for i, p := range pairs {
		if i > 0 {
			builder.WriteString(",")
		}
		builder.WriteString("(?, ?)")
		args = append(args, p.imdbID, p.inc)
	}
	builder.WriteString(" ON DUPLICATE KEY UPDATE ")
	builder.WriteString(column)
	builder.WriteString(" = ")
	builder.WriteString(column)
	builder.WriteString(" + VALUES(")
	builder.WriteString(column)
	builder.WriteString(")")

	db := database.GetDB()
	if err := db.Exec(builder.String(), args...).Error; err != nil {
		return err
	}
	return nil
}
