package payments

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/internal/pkg/clientstore"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewManager(clientstore.New(client))
}

func validForm() AddPaymentMethodForm {
	return AddPaymentMethodForm{
		CardNumber:     "4111 1111 1111 1111",
		ExpiryMonth:    12,
		ExpiryYear:     time.Now().Year() + 1,
		CVC:            "123",
		CardholderName: "Ana García",
	}
}

func TestAddFirstCardBecomesDefault(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	pm, err := m.Add(ctx, 1, validForm())
	require.NoError(t, err)
	assert.True(t, pm.IsDefault)
	assert.Equal(t, "visa", pm.CardBrand)
	assert.Equal(t, "1111", pm.CardLast4)

	methods, err := m.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, methods, 1)
}

func TestAddSecondCardKeepsSingleDefault(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.Add(ctx, 1, validForm())
	require.NoError(t, err)

	second := validForm()
	second.CardNumber = "5500 0000 0000 0004"
	second.IsDefault = true
	pm, err := m.Add(ctx, 1, second)
	require.NoError(t, err)
	assert.Equal(t, "mastercard", pm.CardBrand)

	methods, err := m.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, methods, 2)

	defaults := 0
	for _, got := range methods {
		if got.IsDefault {
			defaults++
			assert.Equal(t, pm.ID, got.ID)
		}
		if got.ID == first.ID {
			assert.False(t, got.IsDefault)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestRemoveDefaultPromotesFirstRemaining(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.Add(ctx, 1, validForm())
	require.NoError(t, err)

	second := validForm()
	second.CardNumber = "6011 0009 9013 9424"
	_, err = m.Add(ctx, 1, second)
	require.NoError(t, err)

	require.NoError(t, m.Remove(ctx, 1, first.ID))

	def, err := m.Default(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "discover", def.CardBrand)
}

func TestRemoveUnknownMethod(t *testing.T) {
	m := newTestManager(t)
	_, err := m.Add(context.Background(), 1, validForm())
	require.NoError(t, err)

	err = m.Remove(context.Background(), 1, "pm_missing")
	assert.ErrorIs(t, err, ErrMethodNotFound)
}

func TestSetDefault(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	first, err := m.Add(ctx, 1, validForm())
	require.NoError(t, err)
	second := validForm()
	second.CardNumber = "3782 822463 10005"
	pm, err := m.Add(ctx, 1, second)
	require.NoError(t, err)

	require.NoError(t, m.SetDefault(ctx, 1, pm.ID))

	methods, err := m.List(ctx, 1)
	require.NoError(t, err)
	for _, got := range methods {
		assert.Equal(t, got.ID == pm.ID, got.IsDefault)
	}
	assert.ErrorIs(t, m.SetDefault(ctx, 1, "pm_missing"), ErrMethodNotFound)
	_ = first
}

func TestMethodsAreScopedPerUser(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Add(ctx, 1, validForm())
	require.NoError(t, err)

	methods, err := m.List(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, methods)
}

func TestOperationsRequireUser(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.List(ctx, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = m.Add(ctx, 0, validForm())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.ErrorIs(t, m.Remove(ctx, 0, "pm_x"), ErrNotAuthenticated)
	assert.ErrorIs(t, m.SetDefault(ctx, 0, "pm_x"), ErrNotAuthenticated)
}

func TestDetectCardBrand(t *testing.T) {
	tests := []struct {
		number string
		want   string
	}{
		{"4111111111111111", "visa"},
		{"5500000000000004", "mastercard"},
		{"2221000000000009", "mastercard"},
		{"378282246310005", "amex"},
		{"6011000990139424", "discover"},
		{"9999999999999999", "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectCardBrand(tt.number), "number %s", tt.number)
	}
}
