package entitlements

import "testing"

func TestTierFromPlanName(t *testing.T) {
	tests := []struct {
		in     string
		want   Tier
		wantOK bool
	}{
		{in: "premium", want: TierPremium, wantOK: true},
		{in: "Plan Premium", want: TierPremium, wantOK: true},
		{in: "  Standard ", want: TierStandard, wantOK: true},
		{in: "plan básico", want: TierBasic, wantOK: true},
		{in: "P-5ML4271244454362WXNWU5NQ", want: TierBasic, wantOK: true},
		{in: "P-94458432VR012762TXNWU5NQ", want: TierPremium, wantOK: true},
		{in: "premium-plus", want: "", wantOK: false},
		{in: "ultra premium", want: "", wantOK: false},
		{in: "", want: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := TierFromPlanName(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("TierFromPlanName(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestPlanByTier(t *testing.T) {
	plan, ok := PlanByTier(TierStandard)
	if !ok {
		t.Fatalf("expected standard plan to exist")
	}
	if plan.Price != 14.99 || plan.Currency != "USD" {
		t.Fatalf("unexpected standard plan: %+v", plan)
	}
	if _, ok := PlanByTier(Tier("gold")); ok {
		t.Fatalf("expected unknown tier to have no plan")
	}
}

func TestValidTier(t *testing.T) {
	for _, s := range []string{"basic", "Standard", " premium "} {
		if !ValidTier(s) {
			t.Fatalf("expected %q to be a valid tier", s)
		}
	}
	for _, s := range []string{"", "gold", "premium-plus"} {
		if ValidTier(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}
