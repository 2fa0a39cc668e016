package entitlements

import (
	"strings"
	"time"
)

type Tier string

const (
	TierBasic    Tier = "basic"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

type Provider string

const (
	ProviderPayPal Provider = "paypal"
	ProviderStripe Provider = "stripe"
)

// Entitlement is the resolved access-rights tuple for one user. It is derived
// state: recomputed on demand, held in the Store, never persisted.
type Entitlement struct {
	Subscribed bool       `json:"subscribed"`
	Tier       Tier       `json:"tier,omitempty"`
	Expiry     *time.Time `json:"expiry,omitempty"`
	Provider   Provider   `json:"provider,omitempty"`
}

// Plan describes one subscription plan offered to users.
type Plan struct {
	Tier         Tier    `json:"tier"`
	DisplayName  string  `json:"display_name"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	PayPalPlanID string  `json:"-"`
}

// Plans is the catalog of offered plans, cheapest first.
var Plans = []Plan{
	{Tier: TierBasic, DisplayName: "Plan Básico", Price: 9.99, Currency: "USD", PayPalPlanID: "P-5ML4271244454362WXNWU5NQ"},
	{Tier: TierStandard, DisplayName: "Plan Estándar", Price: 14.99, Currency: "USD", PayPalPlanID: "P-1GJ4481691914362CXNWU5NQ"},
	{Tier: TierPremium, DisplayName: "Plan Premium", Price: 19.99, Currency: "USD", PayPalPlanID: "P-94458432VR012762TXNWU5NQ"},
}

// PlanByTier returns the catalog entry for a tier.
func PlanByTier(t Tier) (Plan, bool) {
	for _, p := range Plans {
		if p.Tier == t {
			return p, true
		}
	}
	return Plan{}, false
}

// tierAliases is the single canonical mapping from provider plan identifiers
// and stored plan names to internal tiers. Unknown identifiers do not map;
// there is deliberately no substring matching here.
var tierAliases = map[string]Tier{
	"basic":         TierBasic,
	"standard":      TierStandard,
	"premium":       TierPremium,
	"plan básico":   TierBasic,
	"plan estándar": TierStandard,
	"plan premium":  TierPremium,
}

// TierFromPlanName maps a provider plan identifier or stored plan name to a
// tier. The second return is false when the identifier is unknown.
func TierFromPlanName(name string) (Tier, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if t, ok := tierAliases[key]; ok {
		return t, true
	}
	for _, p := range Plans {
		if p.PayPalPlanID == strings.TrimSpace(name) {
			return p.Tier, true
		}
	}
	return "", false
}

// ValidTier reports whether the given string names a known tier.
func ValidTier(s string) bool {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierBasic, TierStandard, TierPremium:
		return true
	default:
		return false
	}
}
