// Package localsubs implements the self-contained subscription lifecycle
// that the account-management screen drives. It is independent from the
// PayPal-backed records in internal/pkg/billing: the two representations
// exist side by side and are intentionally never reconciled with each other.
package localsubs

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
)

const (
	StatusActive    = "active"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
	StatusPaused    = "paused"
)

const (
	ActionSubscribed = "subscribed"
	ActionCancelled  = "cancelled"
	ActionRenewed    = "renewed"
	ActionUpgraded   = "upgraded"
	ActionDowngraded = "downgraded"
)

const billingPeriod = 30 * 24 * time.Hour

// Subscription is the locally simulated subscription record.
type Subscription struct {
	ID            string     `json:"id"`
	UserID        uint       `json:"user_id"`
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	Price         float64    `json:"price"`
	Currency      string     `json:"currency"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// HistoryEntry is one append-only line of subscription history.
type HistoryEntry struct {
	ID      string    `json:"id"`
	UserID  uint      `json:"user_id"`
	Plan    string    `json:"plan"`
	Action  string    `json:"action"`
	Date    time.Time `json:"date"`
	Price   float64   `json:"price"`
	Details string    `json:"details"`
}

var ErrNotAuthenticated = errors.New("authentication required")

var ErrNoSubscription = errors.New("no current subscription")

type Manager struct {
	store *clientstore.Store
}

func NewManager(store *clientstore.Store) *Manager {
	return &Manager{store: store}
}

// Current loads the user's local subscription. An expired end date flips the
// stored status to expired before returning.
func (m *Manager) Current(ctx context.Context, userID uint) (*Subscription, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}

	var sub Subscription
	ok, err := m.store.GetJSON(ctx, clientstore.SubscriptionKey(userID), &sub)
	if err != nil || !ok {
		return nil, err
	}

	if sub.Status == StatusActive && sub.EndDate != nil && sub.EndDate.Before(time.Now()) {
		sub.Status = StatusExpired
		sub.UpdatedAt = time.Now()
		if err := m.store.SetJSON(ctx, clientstore.SubscriptionKey(userID), sub); err != nil {
			return nil, err
		}
	}
	return &sub, nil
}

// Subscribe starts a 30-day subscription on the given plan.
func (m *Manager) Subscribe(ctx context.Context, userID uint, tier entitlements.Tier, paymentMethodID string) (*Subscription, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	plan, ok := entitlements.PlanByTier(tier)
	if !ok {
		return nil, errors.New("unknown plan: " + string(tier))
	}

	now := time.Now()
	end := now.Add(billingPeriod)
	sub := Subscription{
		ID:            "sub_" + uuid.NewString(),
		UserID:        userID,
		Plan:          string(tier),
		Status:        StatusActive,
		StartDate:     now,
		EndDate:       &end,
		Price:         plan.Price,
		Currency:      plan.Currency,
		PaymentMethod: paymentMethodID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.store.SetJSON(ctx, clientstore.SubscriptionKey(userID), sub); err != nil {
		return nil, err
	}

	if err := m.appendHistory(ctx, userID, string(tier), ActionSubscribed, plan.Price, "Suscripción a plan "+string(tier)); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ChangePlan switches the active subscription to another plan. The history
// action is upgraded or downgraded depending on the price delta.
func (m *Manager) ChangePlan(ctx context.Context, userID uint, newTier entitlements.Tier) (*Subscription, error) {
	sub, err := m.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}
	newPlan, ok := entitlements.PlanByTier(newTier)
	if !ok {
		return nil, errors.New("unknown plan: " + string(newTier))
	}

	oldPlan := sub.Plan
	action := ActionDowngraded
	if old, ok := entitlements.PlanByTier(entitlements.Tier(oldPlan)); !ok || newPlan.Price > old.Price {
		action = ActionUpgraded
	}

	sub.Plan = string(newTier)
	sub.Price = newPlan.Price
	sub.UpdatedAt = time.Now()
	if err := m.store.SetJSON(ctx, clientstore.SubscriptionKey(userID), sub); err != nil {
		return nil, err
	}

	details := "Cambio de plan " + oldPlan + " a " + string(newTier)
	if err := m.appendHistory(ctx, userID, string(newTier), action, newPlan.Price, details); err != nil {
		return nil, err
	}
	return sub, nil
}

// Cancel marks the subscription cancelled; access runs until the end date.
func (m *Manager) Cancel(ctx context.Context, userID uint) (*Subscription, error) {
	sub, err := m.Current(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNoSubscription
	}

	now := time.Now()
	sub.Status = StatusCancelled
	sub.CancelledAt = &now
	sub.UpdatedAt = now
	if err := m.store.SetJSON(ctx, clientstore.SubscriptionKey(userID), sub); err != nil {
		return nil, err
	}

	if err := m.appendHistory(ctx, userID, sub.Plan, ActionCancelled, sub.Price, "Suscripción cancelada"); err != nil {
		return nil, err
	}
	return sub, nil
}

// History returns the append-only subscription history, newest first.
func (m *Manager) History(ctx context.Context, userID uint) ([]HistoryEntry, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	var entries []HistoryEntry
	if _, err := m.store.GetJSON(ctx, clientstore.SubscriptionHistoryKey(userID), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (m *Manager) appendHistory(ctx context.Context, userID uint, plan, action string, price float64, details string) error {
	entries, err := m.History(ctx, userID)
	if err != nil {
		return err
	}
	entry := HistoryEntry{
		ID:      "hist_" + uuid.NewString(),
		UserID:  userID,
		Plan:    plan,
		Action:  action,
		Date:    time.Now(),
		Price:   price,
		Details: details,
	}
	entries = append([]HistoryEntry{entry}, entries...)
	return m.store.SetJSON(ctx, clientstore.SubscriptionHistoryKey(userID), entries)
}
