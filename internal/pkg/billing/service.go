package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/WatchHubTV/WatchHub/app/models"
	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
	"gorm.io/gorm"
)

// ErrNotAuthenticated is returned when an operation requiring a signed-in
// user is attempted without one. Such calls never reach the database.
var ErrNotAuthenticated = errors.New("authentication required")

// Service owns the persisted side of the PayPal subscription lifecycle.
//
// Create and cancel both perform two independent writes (subscription row,
// then denormalized profile fields) with no transaction around them. On a
// second-write failure the first write stays in place and the error is
// surfaced so support can reconcile manually — this mirrors the documented
// product behavior and is not rolled back here.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// CreateSubscriptionRecord persists a provider-approved subscription and
// updates the profile's denormalized subscription fields.
func (s *Service) CreateSubscriptionRecord(ctx context.Context, userID uint, providerSubscriptionID, planName string) error {
	_ = ctx
	if userID == 0 {
		return ErrNotAuthenticated
	}
	subID := strings.TrimSpace(providerSubscriptionID)
	if subID == "" {
		return errors.New("provider subscription id is required")
	}

	tier, ok := entitlements.TierFromPlanName(planName)
	if !ok {
		return fmt.Errorf("unknown plan: %s", planName)
	}
	plan, _ := entitlements.PlanByTier(tier)

	sub := &models.PayPalSubscription{
		UserID:               userID,
		PayPalSubscriptionID: subID,
		PlanName:             planName,
		Status:               models.PayPalStatusActive,
		Amount:               plan.Price,
	}
	if err := s.repo.CreateSubscription(sub); err != nil {
		return fmt.Errorf("saving subscription record: %w", err)
	}

	if err := s.repo.UpdateProfileSubscription(userID, map[string]interface{}{
		"subscription_tier":     string(tier),
		"subscription_status":   models.ProfileSubscriptionActive,
		"subscription_provider": models.SubscriptionProviderPayPal,
		"subscription_id":       subID,
	}); err != nil {
		return fmt.Errorf("subscription saved but profile update failed: %w", err)
	}
	return nil
}

// CancelSubscriptionRecord marks the subscription record CANCELLED and the
// profile status cancelled. It deliberately does NOT call the provider's
// cancel API: cancellation here is local bookkeeping and the user is told to
// also cancel directly in their PayPal account.
func (s *Service) CancelSubscriptionRecord(ctx context.Context, userID uint, providerSubscriptionID string) error {
	_ = ctx
	if userID == 0 {
		return ErrNotAuthenticated
	}
	subID := strings.TrimSpace(providerSubscriptionID)
	if subID == "" {
		return errors.New("provider subscription id is required")
	}

	if err := s.repo.UpdateSubscriptionStatus(userID, subID, models.PayPalStatusCancelled); err != nil {
		return fmt.Errorf("updating subscription record: %w", err)
	}

	if err := s.repo.UpdateProfileSubscription(userID, map[string]interface{}{
		"subscription_status": models.ProfileSubscriptionCancelled,
	}); err != nil {
		return fmt.Errorf("subscription cancelled but profile update failed: %w", err)
	}
	return nil
}

// GetActiveSubscriptionStatus returns the most recent ACTIVE subscription
// record for the user, or nil when there is none. A not-found from the store
// is a normal empty result, never an error.
func (s *Service) GetActiveSubscriptionStatus(ctx context.Context, userID uint) (*PayPalSubscriptionData, error) {
	_ = ctx
	if userID == 0 {
		return nil, nil
	}

	sub, err := s.repo.LatestActiveSubscription(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &PayPalSubscriptionData{
		SubscriptionID:  sub.PayPalSubscriptionID,
		Plan:            sub.PlanName,
		Status:          sub.Status,
		Amount:          sub.Amount,
		StartTime:       sub.CreatedAt,
		NextBillingTime: sub.NextBillingTime,
	}, nil
}

// ActiveSubscription implements entitlements.ProviderSource.
func (s *Service) ActiveSubscription(ctx context.Context, userID uint) (*entitlements.ProviderStatus, error) {
	data, err := s.GetActiveSubscriptionStatus(ctx, userID)
	if err != nil || data == nil {
		return nil, err
	}
	return &entitlements.ProviderStatus{
		SubscriptionID:  data.SubscriptionID,
		PlanName:        data.Plan,
		Status:          data.Status,
		Amount:          data.Amount,
		StartTime:       data.StartTime,
		NextBillingTime: data.NextBillingTime,
	}, nil
}

// ProfileSubscription implements entitlements.ProfileSource. Not-found is a
// normal empty result; this lookup is a best-effort secondary signal.
func (s *Service) ProfileSubscription(ctx context.Context, userID uint) (*entitlements.ProfileSubscription, error) {
	_ = ctx
	profile, err := s.repo.GetProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entitlements.ProfileSubscription{
		Tier:     profile.SubscriptionTier,
		Status:   profile.SubscriptionStatus,
		Provider: profile.SubscriptionProvider,
	}, nil
}

// LegacySource adapts the StripeClient to the entitlements reconciler. The
// legacy backend authenticates with a deployment-wide service key; the user
// is identified in the request body.
type LegacySource struct {
	Client     *StripeClient
	ServiceKey string
}

func NewLegacySourceFromEnv() *LegacySource {
	return &LegacySource{
		Client:     NewStripeClientFromEnv(),
		ServiceKey: env.GetEnv("LEGACY_BILLING_SERVICE_KEY", ""),
	}
}

// CheckSubscription implements entitlements.LegacySource. It never returns
// an error: every failure mode of the legacy backend means "no legacy
// subscription".
func (l *LegacySource) CheckSubscription(ctx context.Context, userID uint) (*entitlements.LegacyStatus, error) {
	if l.Client == nil {
		return nil, nil
	}
	res := l.Client.CheckSubscription(ctx, fmt.Sprintf("%s:%d", l.ServiceKey, userID))
	if res == nil {
		return nil, nil
	}
	return &entitlements.LegacyStatus{
		Subscribed:      res.Subscribed,
		Tier:            res.SubscriptionTier,
		SubscriptionEnd: res.SubscriptionEnd,
	}, nil
}
