package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

// StripeClient talks to the legacy billing backend, a set of hosted
// functions from the first Stripe integration. Any of these functions may be
// unimplemented in a given deployment; a missing endpoint is a soft failure,
// not an error condition.
type StripeClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewStripeClientFromEnv() *StripeClient {
	return &StripeClient{
		BaseURL: strings.TrimRight(strings.TrimSpace(env.GetEnv("LEGACY_BILLING_BASE_URL", "")), "/"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Configured reports whether a legacy backend is configured at all.
func (c *StripeClient) Configured() bool {
	return c.BaseURL != ""
}

// CheckSubscription asks the legacy backend whether the holder of the given
// token has an active subscription. Any failure — the backend being
// unconfigured, the endpoint missing, transport errors, bad payloads — is
// swallowed and reported as "no legacy subscription". This method never
// returns an error to its caller.
func (c *StripeClient) CheckSubscription(ctx context.Context, authToken string) *LegacyCheckResult {
	if !c.Configured() {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/check-subscription", nil)
	if err != nil {
		log.Printf("billing: legacy check-subscription request build failed: %v", err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Printf("billing: legacy check-subscription call failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Endpoint not deployed; treated the same as "not subscribed".
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("billing: legacy check-subscription returned status=%d body=%s", resp.StatusCode, string(body))
		return nil
	}

	var out LegacyCheckResult
	if err := json.Unmarshal(body, &out); err != nil {
		log.Printf("billing: legacy check-subscription payload unreadable: %v", err)
		return nil
	}
	return &out
}

// CreateCheckout asks the legacy backend for a hosted checkout URL. Unlike
// CheckSubscription this surfaces errors: the caller offers PayPal as the
// fallback path.
func (c *StripeClient) CreateCheckout(ctx context.Context, authToken, plan string) (string, error) {
	if !c.Configured() {
		return "", errors.New("legacy billing backend is not configured")
	}

	raw, err := json.Marshal(map[string]string{"plan": plan})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/create-checkout", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	req.Header.Set("Content-Type", "application/json")

	return c.urlResponse(req)
}

// CustomerPortalURL asks the legacy backend for a customer-portal URL.
func (c *StripeClient) CustomerPortalURL(ctx context.Context, authToken string) (string, error) {
	if !c.Configured() {
		return "", errors.New("legacy billing backend is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/customer-portal", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+authToken)

	return c.urlResponse(req)
}

func (c *StripeClient) urlResponse(req *http.Request) (string, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("legacy billing call failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.URL) == "" {
		return "", errors.New("legacy billing response missing url")
	}
	return out.URL, nil
}
