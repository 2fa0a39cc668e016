package billing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/WatchHubTV/WatchHub/app/models"
)

type fakeRepo struct {
	subs           []*models.PayPalSubscription
	profile        *models.Profile
	subscriber     *models.Subscriber
	createErr      error
	profileErr     error
	statusUpdates  []string
	profileUpdates []map[string]interface{}
}

func (f *fakeRepo) CreateSubscription(sub *models.PayPalSubscription) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeRepo) UpdateSubscriptionStatus(userID uint, paypalSubscriptionID, status string) error {
	f.statusUpdates = append(f.statusUpdates, status)
	for _, s := range f.subs {
		if s.UserID == userID && s.PayPalSubscriptionID == paypalSubscriptionID {
			s.Status = status
		}
	}
	return nil
}

func (f *fakeRepo) LatestActiveSubscription(userID uint) (*models.PayPalSubscription, error) {
	for i := len(f.subs) - 1; i >= 0; i-- {
		if f.subs[i].UserID == userID && f.subs[i].Status == models.PayPalStatusActive {
			return f.subs[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetProfileByUserID(userID uint) (*models.Profile, error) {
	if f.profile == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.profile, nil
}

func (f *fakeRepo) UpdateProfileSubscription(userID uint, updates map[string]interface{}) error {
	if f.profileErr != nil {
		return f.profileErr
	}
	f.profileUpdates = append(f.profileUpdates, updates)
	return nil
}

func (f *fakeRepo) GetSubscriberByUserID(userID uint) (*models.Subscriber, error) {
	if f.subscriber == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.subscriber, nil
}

func TestCreateSubscriptionRecord(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	err := svc.CreateSubscriptionRecord(context.Background(), 1, "I-XYZ789", "Plan Premium")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.subs) != 1 {
		t.Fatalf("expected one subscription row, got %d", len(repo.subs))
	}
	sub := repo.subs[0]
	if sub.Status != models.PayPalStatusActive || sub.Amount != 19.99 {
		t.Fatalf("unexpected subscription row: %+v", sub)
	}
	if len(repo.profileUpdates) != 1 {
		t.Fatalf("expected one profile update, got %d", len(repo.profileUpdates))
	}
	up := repo.profileUpdates[0]
	if up["subscription_tier"] != "premium" || up["subscription_status"] != models.ProfileSubscriptionActive {
		t.Fatalf("unexpected profile update: %+v", up)
	}
	if up["subscription_provider"] != models.SubscriptionProviderPayPal {
		t.Fatalf("expected paypal provider in profile update, got %v", up["subscription_provider"])
	}
}

func TestCreateSubscriptionRecordUnknownPlan(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	err := svc.CreateSubscriptionRecord(context.Background(), 1, "I-XYZ789", "Plan Diamante")
	if err == nil {
		t.Fatalf("expected error for unknown plan")
	}
	if len(repo.subs) != 0 {
		t.Fatalf("unknown plan must not create a subscription row")
	}
}

func TestCreateSubscriptionRecordNotAuthenticated(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	err := svc.CreateSubscriptionRecord(context.Background(), 0, "I-XYZ789", "Plan Premium")
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
	if len(repo.subs) != 0 || len(repo.profileUpdates) != 0 {
		t.Fatalf("unauthenticated call must not reach the repository")
	}
}

func TestCreateSubscriptionRecordSecondWriteFailure(t *testing.T) {
	repo := &fakeRepo{profileErr: errors.New("lock wait timeout")}
	svc := NewService(repo)

	err := svc.CreateSubscriptionRecord(context.Background(), 1, "I-XYZ789", "basic")
	if err == nil {
		t.Fatalf("expected surfaced error from profile update")
	}
	if !strings.Contains(err.Error(), "profile update failed") {
		t.Fatalf("error should name the failed second write, got %v", err)
	}
	// The first write is not rolled back.
	if len(repo.subs) != 1 {
		t.Fatalf("subscription row must survive the profile failure")
	}
}

func TestCancelSubscriptionRecord(t *testing.T) {
	repo := &fakeRepo{subs: []*models.PayPalSubscription{
		{UserID: 1, PayPalSubscriptionID: "I-XYZ789", Status: models.PayPalStatusActive},
	}}
	svc := NewService(repo)

	if err := svc.CancelSubscriptionRecord(context.Background(), 1, "I-XYZ789"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.subs[0].Status != models.PayPalStatusCancelled {
		t.Fatalf("expected subscription to be CANCELLED, got %q", repo.subs[0].Status)
	}
	if len(repo.profileUpdates) != 1 || repo.profileUpdates[0]["subscription_status"] != models.ProfileSubscriptionCancelled {
		t.Fatalf("expected profile status set to cancelled, got %+v", repo.profileUpdates)
	}
}

func TestGetActiveSubscriptionStatusNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	data, err := svc.GetActiveSubscriptionStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("missing record must not be an error, got %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil data for user without subscription")
	}
}

func TestGetActiveSubscriptionStatusPicksLatestActive(t *testing.T) {
	repo := &fakeRepo{subs: []*models.PayPalSubscription{
		{UserID: 1, PayPalSubscriptionID: "I-OLD", Status: models.PayPalStatusCancelled, PlanName: "basic"},
		{UserID: 1, PayPalSubscriptionID: "I-NEW", Status: models.PayPalStatusActive, PlanName: "standard", Amount: 14.99},
	}}
	svc := NewService(repo)

	data, err := svc.GetActiveSubscriptionStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil || data.SubscriptionID != "I-NEW" || data.Plan != "standard" {
		t.Fatalf("expected newest active record, got %+v", data)
	}
}

func TestProfileSubscriptionNotFound(t *testing.T) {
	svc := NewService(&fakeRepo{})

	data, err := svc.ProfileSubscription(context.Background(), 1)
	if err != nil || data != nil {
		t.Fatalf("missing profile must read as no data, got (%+v, %v)", data, err)
	}
}
