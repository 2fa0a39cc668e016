package localsubs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
)

func newTestManager(t *testing.T) (*Manager, *clientstore.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	store := clientstore.New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	return NewManager(store), store
}

func TestSubscribe(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	sub, err := m.Subscribe(ctx, 1, entitlements.TierStandard, "pm_abc")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.Equal(t, "standard", sub.Plan)
	assert.Equal(t, 14.99, sub.Price)
	require.NotNil(t, sub.EndDate)

	// Billing period is 30 days.
	days := sub.EndDate.Sub(sub.StartDate).Hours() / 24
	assert.InDelta(t, 30, days, 0.01)

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, ActionSubscribed, history[0].Action)
}

func TestSubscribeUnknownPlan(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Subscribe(context.Background(), 1, entitlements.Tier("gold"), "")
	assert.Error(t, err)
}

func TestChangePlanUpgradeAndDowngrade(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Subscribe(ctx, 1, entitlements.TierBasic, "")
	require.NoError(t, err)

	sub, err := m.ChangePlan(ctx, 1, entitlements.TierPremium)
	require.NoError(t, err)
	assert.Equal(t, "premium", sub.Plan)
	assert.Equal(t, 19.99, sub.Price)

	sub, err = m.ChangePlan(ctx, 1, entitlements.TierStandard)
	require.NoError(t, err)
	assert.Equal(t, "standard", sub.Plan)

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 3)
	// Newest first.
	assert.Equal(t, ActionDowngraded, history[0].Action)
	assert.Equal(t, ActionUpgraded, history[1].Action)
	assert.Equal(t, ActionSubscribed, history[2].Action)
}

func TestChangePlanWithoutSubscription(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.ChangePlan(context.Background(), 1, entitlements.TierPremium)
	assert.ErrorIs(t, err, ErrNoSubscription)
}

func TestCancel(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Subscribe(ctx, 1, entitlements.TierPremium, "")
	require.NoError(t, err)

	sub, err := m.Cancel(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, sub.Status)
	require.NotNil(t, sub.CancelledAt)
	// Access keeps running until the end date.
	require.NotNil(t, sub.EndDate)
	assert.True(t, sub.EndDate.After(time.Now()))

	history, err := m.History(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ActionCancelled, history[0].Action)
}

func TestCurrentFlipsExpired(t *testing.T) {
	m, store := newTestManager(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	expired := Subscription{
		ID:        "sub_old",
		UserID:    1,
		Plan:      "basic",
		Status:    StatusActive,
		StartDate: past.Add(-30 * 24 * time.Hour),
		EndDate:   &past,
	}
	require.NoError(t, store.SetJSON(ctx, clientstore.SubscriptionKey(1), expired))

	sub, err := m.Current(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, StatusExpired, sub.Status)

	// The flip is persisted.
	var stored Subscription
	ok, err := store.GetJSON(ctx, clientstore.SubscriptionKey(1), &stored)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, StatusExpired, stored.Status)
}

func TestCurrentNoSubscription(t *testing.T) {
	m, _ := newTestManager(t)
	sub, err := m.Current(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, sub)
}

func TestRequiresUser(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	_, err := m.Current(ctx, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = m.Subscribe(ctx, 0, entitlements.TierBasic, "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = m.History(ctx, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
