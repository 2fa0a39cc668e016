// Package payments manages the simulated card-on-file records. These are
// explicitly not production financial records: no processor tokenization
// happens and only brand/last4/expiry are kept, in the client store.
package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

// PaymentMethod is one stored (simulated) card.
type PaymentMethod struct {
	ID        string    `json:"id"`
	UserID    uint      `json:"user_id"`
	CardBrand string    `json:"card_brand"`
	CardLast4 string    `json:"card_last4"`
	ExpMonth  int       `json:"exp_month"`
	ExpYear   int       `json:"exp_year"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ErrNotAuthenticated is returned when no user is given.
var ErrNotAuthenticated = errors.New("authentication required")

var ErrMethodNotFound = errors.New("payment method not found")

type Manager struct {
	store *clientstore.Store
}

func NewManager(store *clientstore.Store) *Manager {
	return &Manager{store: store}
}

// List returns the user's stored payment methods, possibly empty.
func (m *Manager) List(ctx context.Context, userID uint) ([]PaymentMethod, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	var methods []PaymentMethod
	if _, err := m.store.GetJSON(ctx, clientstore.PaymentMethodsKey(userID), &methods); err != nil {
		return nil, err
	}
	return methods, nil
}

// Add validates the form, derives brand and last4 and stores the new card.
// The first stored card always becomes the default.
func (m *Manager) Add(ctx context.Context, userID uint, form AddPaymentMethodForm) (*PaymentMethod, error) {
	if userID == 0 {
		return nil, ErrNotAuthenticated
	}
	if errs := form.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	methods, err := m.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	cleanNumber := strings.ReplaceAll(form.CardNumber, " ", "")
	now := time.Now()
	method := PaymentMethod{
		ID:        "pm_" + uuid.NewString(),
		UserID:    userID,
		CardBrand: DetectCardBrand(cleanNumber),
		CardLast4: cleanNumber[len(cleanNumber)-4:],
		ExpMonth:  form.ExpiryMonth,
		ExpYear:   form.ExpiryYear,
		IsDefault: form.IsDefault || len(methods) == 0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if method.IsDefault {
		for i := range methods {
			methods[i].IsDefault = false
		}
	}
	methods = append(methods, method)

	if err := m.store.SetJSON(ctx, clientstore.PaymentMethodsKey(userID), methods); err != nil {
		return nil, err
	}
	return &method, nil
}

// Remove deletes a card. When the default card is removed the first
// remaining card is promoted to default.
func (m *Manager) Remove(ctx context.Context, userID uint, methodID string) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	methods, err := m.List(ctx, userID)
	if err != nil {
		return err
	}

	wasDefault := false
	kept := methods[:0]
	found := false
	for _, pm := range methods {
		if pm.ID == methodID {
			found = true
			wasDefault = pm.IsDefault
			continue
		}
		kept = append(kept, pm)
	}
	if !found {
		return ErrMethodNotFound
	}

	if wasDefault && len(kept) > 0 {
		kept[0].IsDefault = true
		kept[0].UpdatedAt = time.Now()
	}
	return m.store.SetJSON(ctx, clientstore.PaymentMethodsKey(userID), kept)
}

// SetDefault marks the given card as the single default.
func (m *Manager) SetDefault(ctx context.Context, userID uint, methodID string) error {
	if userID == 0 {
		return ErrNotAuthenticated
	}
	methods, err := m.List(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	now := time.Now()
	for i := range methods {
		isTarget := methods[i].ID == methodID
		if isTarget {
			found = true
			methods[i].UpdatedAt = now
		}
		methods[i].IsDefault = isTarget
	}
	if !found {
		return ErrMethodNotFound
	}
	return m.store.SetJSON(ctx, clientstore.PaymentMethodsKey(userID), methods)
}

// Default returns the user's default card, or nil when none is stored.
func (m *Manager) Default(ctx context.Context, userID uint) (*PaymentMethod, error) {
	methods, err := m.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range methods {
		if methods[i].IsDefault {
			return &methods[i], nil
		}
	}
	return nil, nil
}

// DetectCardBrand identifies the network by the leading digit.
func DetectCardBrand(cardNumber string) string {
	clean := strings.ReplaceAll(cardNumber, " ", "")
	switch {
	case strings.HasPrefix(clean, "4"):
		return "visa"
	case strings.HasPrefix(clean, "5"), strings.HasPrefix(clean, "2"):
		return "mastercard"
	case strings.HasPrefix(clean, "3"):
		return "amex"
	case strings.HasPrefix(clean, "6"):
		return "discover"
	default:
		return "unknown"
	}
}
