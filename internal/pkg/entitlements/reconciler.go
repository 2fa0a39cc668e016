package entitlements

import (
	"context"
	"log"
	"sync"
	"time"
)

// ProviderStatus is the subscription state reported by the primary payment
// processor for a user.
type ProviderStatus struct {
	SubscriptionID  string
	PlanName        string
	Status          string
	Amount          float64
	StartTime       time.Time
	NextBillingTime *time.Time
}

// ProfileSubscription is the denormalized subscription state read from the
// user profile record.
type ProfileSubscription struct {
	Tier     string
	Status   string
	Provider string
}

// LegacyStatus is the response of the optional legacy billing backend.
type LegacyStatus struct {
	Subscribed      bool
	Tier            string
	SubscriptionEnd *time.Time
}

// ProviderSource looks up the most recent active subscription at the primary
// payment processor. A nil result with nil error means "no subscription".
type ProviderSource interface {
	ActiveSubscription(ctx context.Context, userID uint) (*ProviderStatus, error)
}

// ProfileSource reads the denormalized subscription fields from the profile.
type ProfileSource interface {
	ProfileSubscription(ctx context.Context, userID uint) (*ProfileSubscription, error)
}

// LegacySource queries the optional legacy billing backend. Implementations
// must tolerate the backend being entirely absent.
type LegacySource interface {
	CheckSubscription(ctx context.Context, userID uint) (*LegacyStatus, error)
}

// Reconciler merges the three subscription signals into one entitlement
// under a fixed precedence: provider > profile > legacy. It is business-rule
// glue: each source is independently fault-tolerant and a failure merely
// removes that signal from the merge.
type Reconciler struct {
	provider ProviderSource
	profile  ProfileSource
	legacy   LegacySource
	store    *Store
}

func NewReconciler(provider ProviderSource, profile ProfileSource, legacy LegacySource, store *Store) *Reconciler {
	return &Reconciler{
		provider: provider,
		profile:  profile,
		legacy:   legacy,
		store:    store,
	}
}

// Store returns the shared entitlement store this reconciler writes to.
func (r *Reconciler) Store() *Store {
	return r.store
}

// Reconcile queries all three sources and resolves the user's entitlement.
// With no user (userID == 0) it returns the zero entitlement without
// touching any source. It never fails as a whole: when every source is
// unavailable the result degrades to "not subscribed".
func (r *Reconciler) Reconcile(ctx context.Context, userID uint) Entitlement {
	if userID == 0 {
		return Entitlement{}
	}

	var (
		wg           sync.WaitGroup
		providerData *ProviderStatus
		profileData  *ProfileSubscription
		legacyData   *LegacyStatus
	)

	// The three lookups are independent; each failure is logged and treated
	// as "no data from this source". Precedence is applied on the resolved
	// values, so the result does not depend on completion order.
	wg.Add(3)
	go func() {
		defer wg.Done()
		if r.provider == nil {
			return
		}
		data, err := r.provider.ActiveSubscription(ctx, userID)
		if err != nil {
			log.Printf("entitlements: provider subscription check failed for user %d: %v", userID, err)
			return
		}
		providerData = data
	}()
	go func() {
		defer wg.Done()
		if r.profile == nil {
			return
		}
		data, err := r.profile.ProfileSubscription(ctx, userID)
		if err != nil {
			log.Printf("entitlements: profile subscription check failed for user %d: %v", userID, err)
			return
		}
		profileData = data
	}()
	go func() {
		defer wg.Done()
		if r.legacy == nil {
			return
		}
		data, err := r.legacy.CheckSubscription(ctx, userID)
		if err != nil {
			log.Printf("entitlements: legacy subscription check failed for user %d: %v", userID, err)
			return
		}
		legacyData = data
	}()
	wg.Wait()

	ent := resolve(providerData, profileData, legacyData)
	if r.store != nil {
		r.store.Set(userID, ent)
	}
	return ent
}

// resolve applies the fixed first-match-wins precedence.
func resolve(provider *ProviderStatus, profile *ProfileSubscription, legacy *LegacyStatus) Entitlement {
	if provider != nil && provider.Status == "ACTIVE" {
		tier, _ := TierFromPlanName(provider.PlanName)
		return Entitlement{
			Subscribed: true,
			Tier:       tier,
			Expiry:     provider.NextBillingTime,
			Provider:   ProviderPayPal,
		}
	}

	if profile != nil && profile.Status == "active" {
		prov := Provider(profile.Provider)
		if prov == "" {
			prov = ProviderPayPal
		}
		tier, _ := TierFromPlanName(profile.Tier)
		return Entitlement{
			Subscribed: true,
			Tier:       tier,
			Provider:   prov,
		}
	}

	if legacy != nil && legacy.Subscribed {
		tier, _ := TierFromPlanName(legacy.Tier)
		return Entitlement{
			Subscribed: true,
			Tier:       tier,
			Expiry:     legacy.SubscriptionEnd,
			Provider:   ProviderStripe,
		}
	}

	return Entitlement{}
}
