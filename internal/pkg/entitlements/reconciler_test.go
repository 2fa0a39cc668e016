package entitlements

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeProvider struct {
	data *ProviderStatus
	err  error
	hits int
}

func (f *fakeProvider) ActiveSubscription(ctx context.Context, userID uint) (*ProviderStatus, error) {
	f.hits++
	return f.data, f.err
}

type fakeProfile struct {
	data *ProfileSubscription
	err  error
	hits int
}

func (f *fakeProfile) ProfileSubscription(ctx context.Context, userID uint) (*ProfileSubscription, error) {
	f.hits++
	return f.data, f.err
}

type fakeLegacy struct {
	data *LegacyStatus
	err  error
	hits int
}

func (f *fakeLegacy) CheckSubscription(ctx context.Context, userID uint) (*LegacyStatus, error) {
	f.hits++
	return f.data, f.err
}

func TestReconcileProviderWinsOverProfile(t *testing.T) {
	next := time.Now().Add(30 * 24 * time.Hour)
	provider := &fakeProvider{data: &ProviderStatus{
		SubscriptionID:  "I-ABC123",
		PlanName:        "Plan Premium",
		Status:          "ACTIVE",
		NextBillingTime: &next,
	}}
	profile := &fakeProfile{data: &ProfileSubscription{Tier: "basic", Status: "active", Provider: "stripe"}}
	legacy := &fakeLegacy{data: &LegacyStatus{Subscribed: false}}

	r := NewReconciler(provider, profile, legacy, NewStore())
	ent := r.Reconcile(context.Background(), 7)

	if !ent.Subscribed {
		t.Fatalf("expected subscribed entitlement")
	}
	if ent.Tier != TierPremium {
		t.Fatalf("expected premium from provider record, got %q", ent.Tier)
	}
	if ent.Provider != ProviderPayPal {
		t.Fatalf("expected paypal provider, got %q", ent.Provider)
	}
	if ent.Expiry == nil || !ent.Expiry.Equal(next) {
		t.Fatalf("expected expiry from next billing time")
	}
}

func TestReconcileFallsBackToProfile(t *testing.T) {
	provider := &fakeProvider{data: nil}
	profile := &fakeProfile{data: &ProfileSubscription{Tier: "standard", Status: "active"}}
	legacy := &fakeLegacy{data: nil}

	r := NewReconciler(provider, profile, legacy, NewStore())
	ent := r.Reconcile(context.Background(), 7)

	if !ent.Subscribed || ent.Tier != TierStandard {
		t.Fatalf("expected active standard from profile, got %+v", ent)
	}
	if ent.Provider != ProviderPayPal {
		t.Fatalf("expected provider to default to paypal, got %q", ent.Provider)
	}
}

func TestReconcileCancelledProviderDoesNotWin(t *testing.T) {
	provider := &fakeProvider{data: &ProviderStatus{PlanName: "Plan Premium", Status: "CANCELLED"}}
	profile := &fakeProfile{data: &ProfileSubscription{Tier: "basic", Status: "active"}}

	r := NewReconciler(provider, profile, &fakeLegacy{}, NewStore())
	ent := r.Reconcile(context.Background(), 7)

	if ent.Tier != TierBasic {
		t.Fatalf("cancelled provider record must yield to profile, got %q", ent.Tier)
	}
}

func TestReconcileLegacyLastResort(t *testing.T) {
	end := time.Now().Add(10 * 24 * time.Hour)
	legacy := &fakeLegacy{data: &LegacyStatus{Subscribed: true, Tier: "premium", SubscriptionEnd: &end}}

	r := NewReconciler(&fakeProvider{}, &fakeProfile{}, legacy, NewStore())
	ent := r.Reconcile(context.Background(), 7)

	if !ent.Subscribed || ent.Provider != ProviderStripe {
		t.Fatalf("expected stripe entitlement from legacy source, got %+v", ent)
	}
	if ent.Expiry == nil || !ent.Expiry.Equal(end) {
		t.Fatalf("expected expiry from legacy subscription end")
	}
}

func TestReconcileSourceFailuresDegrade(t *testing.T) {
	boom := errors.New("connection refused")

	// One source failing leaves the others in play.
	r := NewReconciler(
		&fakeProvider{err: boom},
		&fakeProfile{data: &ProfileSubscription{Tier: "basic", Status: "active"}},
		&fakeLegacy{err: boom},
		NewStore(),
	)
	ent := r.Reconcile(context.Background(), 7)
	if !ent.Subscribed || ent.Tier != TierBasic {
		t.Fatalf("expected profile to survive other source failures, got %+v", ent)
	}

	// All sources failing degrades to not subscribed, never an error.
	r = NewReconciler(&fakeProvider{err: boom}, &fakeProfile{err: boom}, &fakeLegacy{err: boom}, NewStore())
	ent = r.Reconcile(context.Background(), 7)
	if ent.Subscribed || ent.Tier != "" || ent.Expiry != nil {
		t.Fatalf("expected zero entitlement on total failure, got %+v", ent)
	}
}

func TestReconcileAnonymousUserTouchesNoSource(t *testing.T) {
	provider := &fakeProvider{}
	profile := &fakeProfile{}
	legacy := &fakeLegacy{}

	r := NewReconciler(provider, profile, legacy, NewStore())
	ent := r.Reconcile(context.Background(), 0)

	if ent != (Entitlement{}) {
		t.Fatalf("expected zero entitlement for anonymous user, got %+v", ent)
	}
	if provider.hits+profile.hits+legacy.hits != 0 {
		t.Fatalf("expected no source calls for anonymous user")
	}
}

func TestReconcileWritesStoreAndNotifies(t *testing.T) {
	store := NewStore()
	var notified []uint
	store.Subscribe(func(userID uint, e Entitlement) {
		notified = append(notified, userID)
	})

	r := NewReconciler(&fakeProvider{data: &ProviderStatus{PlanName: "basic", Status: "ACTIVE"}}, &fakeProfile{}, &fakeLegacy{}, store)
	r.Reconcile(context.Background(), 42)

	got, ok := store.Get(42)
	if !ok || !got.Subscribed || got.Tier != TierBasic {
		t.Fatalf("expected store to hold reconciled entitlement, got (%+v, %v)", got, ok)
	}
	if len(notified) != 1 || notified[0] != 42 {
		t.Fatalf("expected one observer notification for user 42, got %v", notified)
	}

	store.Clear(42)
	if _, ok := store.Get(42); ok {
		t.Fatalf("expected entry to be gone after Clear")
	}
}
