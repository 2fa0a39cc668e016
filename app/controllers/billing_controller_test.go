package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WatchHubTV/WatchHub/internal/pkg/billing"
)

// installTestPayPalClient burns the singleton guard and swaps in a client
// pointed at a local test server.
func installTestPayPalClient(c *billing.PayPalClient) {
	paypalOnce.Do(func() {})
	paypalClient = c
}

func newCheckoutTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   32400,
		})
	})
	mux.HandleFunc("/v2/checkout/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "ORDER123",
			"status": "CREATED",
			"links": []map[string]string{
				{"href": "https://example.test/self", "rel": "self"},
				{"href": "https://example.test/approve", "rel": "approve"},
			},
		})
	})
	return httptest.NewServer(mux)
}

func TestHandleCreateCheckoutReturnsApprovalURL(t *testing.T) {
	srv := newCheckoutTestServer(t)
	defer srv.Close()

	installTestPayPalClient(&billing.PayPalClient{
		ClientID:     "id",
		ClientSecret: "secret",
		APIBaseURL:   srv.URL,
		BrandName:    "WatchHub",
		HTTPClient:   srv.Client(),
	})

	app := fiber.New()
	app.Post("/billing/checkout", func(c *fiber.Ctx) error {
		c.Locals(USER_ID, uint(7))
		return HandleCreateCheckout(c)
	})

	form := url.Values{}
	form.Set("plan", "standard")
	req := httptest.NewRequest("POST", "/billing/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		OrderID    string `json:"order_id"`
		ApproveURL string `json:"approve_url"`
		Plan       string `json:"plan"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "ORDER123", payload.OrderID)
	assert.Equal(t, "https://example.test/approve", payload.ApproveURL)
	assert.Equal(t, "standard", payload.Plan)
}

func TestHandleCreateCheckoutRejectsUnknownPlan(t *testing.T) {
	app := fiber.New()
	app.Post("/billing/checkout", func(c *fiber.Ctx) error {
		c.Locals(USER_ID, uint(7))
		return HandleCreateCheckout(c)
	})

	form := url.Values{}
	form.Set("plan", "gold")
	req := httptest.NewRequest("POST", "/billing/checkout", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleCreateCheckoutRequiresLogin(t *testing.T) {
	app := fiber.New()
	app.Post("/billing/checkout", HandleCreateCheckout)

	req := httptest.NewRequest("POST", "/billing/checkout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
