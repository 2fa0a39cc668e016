// Package clientstore is the server-side stand-in for what the reference
// product kept in browser local storage: simulated payment methods, the
// local subscription lifecycle, 2FA backup codes and playback progress.
//
// Values are JSON blobs under the original key layout with no schema
// versioning and last-write-wins semantics. Concurrent writers to the same
// key (the original's "second browser tab") can silently diverge; that gap
// is inherited by design, not fixed here.
package clientstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/WatchHubTV/WatchHub/internal/pkg/cache"
)

type Store struct {
	client *redis.Client
}

// New creates a client store over an explicit Redis client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// NewFromCache creates a client store over the shared cache client.
func NewFromCache() *Store {
	return &Store{client: cache.GetClient()}
}

// PaymentMethodsKey returns the storage key for a user's payment methods.
func PaymentMethodsKey(userID uint) string {
	return fmt.Sprintf("payment_methods_%d", userID)
}

// SubscriptionKey returns the storage key for a user's local subscription.
func SubscriptionKey(userID uint) string {
	return fmt.Sprintf("subscription_%d", userID)
}

// SubscriptionHistoryKey returns the storage key for a user's subscription history.
func SubscriptionHistoryKey(userID uint) string {
	return fmt.Sprintf("subscription_history_%d", userID)
}

// BackupCodesKey returns the storage key for a user's 2FA backup codes.
func BackupCodesKey(userID uint) string {
	return fmt.Sprintf("backup_codes_%d", userID)
}

// PendingTOTPKey returns the storage key for a not-yet-verified TOTP secret.
func PendingTOTPKey(userID uint) string {
	return fmt.Sprintf("totp_pending_%d", userID)
}

// VideoProgressKey returns the storage key for playback progress of one video.
func VideoProgressKey(userID uint, videoID string) string {
	return fmt.Sprintf("video_progress_%d_%s", userID, videoID)
}

// GetJSON loads the value at key into out. The second return is false when
// the key does not exist.
func (s *Store) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("clientstore: unreadable value at %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores value at key, replacing any previous value.
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, 0).Err()
}

// Delete removes the value at key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// Keys lists all stored keys matching a glob pattern.
func (s *Store) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
