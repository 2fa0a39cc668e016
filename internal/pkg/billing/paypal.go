package billing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/WatchHubTV/WatchHub/internal/pkg/entitlements"
	"github.com/WatchHubTV/WatchHub/internal/pkg/env"
)

const (
	defaultPayPalSandboxURL    = "https://api-m.sandbox.paypal.com"
	defaultPayPalProductionURL = "https://api-m.paypal.com"
)

type PayPalClient struct {
	ClientID     string
	ClientSecret string

	APIBaseURL string
	BrandName  string

	HTTPClient *http.Client
}

type PayPalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type payPalOrderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

func NewPayPalClientFromEnv() *PayPalClient {
	base := strings.TrimSpace(env.GetEnv("PAYPAL_API_BASE_URL", ""))
	if base == "" {
		if env.GetEnv("PAYPAL_ENVIRONMENT", "sandbox") == "production" {
			base = defaultPayPalProductionURL
		} else {
			base = defaultPayPalSandboxURL
		}
	}

	return &PayPalClient{
		ClientID:     strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_ID", "")),
		ClientSecret: strings.TrimSpace(env.GetEnv("PAYPAL_CLIENT_SECRET", "")),
		APIBaseURL:   strings.TrimRight(base, "/"),
		BrandName:    env.GetEnv("APP_NAME", "WatchHub"),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AccessToken exchanges the configured API credential pair for an OAuth
// access token via the client-credentials grant.
func (c *PayPalClient) AccessToken(ctx context.Context) (string, error) {
	if strings.TrimSpace(c.ClientID) == "" || strings.TrimSpace(c.ClientSecret) == "" {
		return "", errors.New("PAYPAL_CLIENT_ID/PAYPAL_CLIENT_SECRET are not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.ClientID + ":" + c.ClientSecret))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal token exchange failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out PayPalTokenResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", errors.New("paypal token exchange returned empty access_token")
	}
	return out.AccessToken, nil
}

// CreateCheckoutOrder creates a capture order for one billing period of the
// given plan and returns the approval URL for redirect-based checkout.
func (c *PayPalClient) CreateCheckoutOrder(ctx context.Context, plan entitlements.Plan, origin string) (*CheckoutOrder, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	origin = strings.TrimRight(origin, "/")
	if origin == "" {
		origin = strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000"), "/")
	}

	payload := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": plan.Currency,
					"value":         fmt.Sprintf("%.2f", plan.Price),
				},
				"description": fmt.Sprintf("%s %s - Suscripción Mensual", c.BrandName, plan.DisplayName),
			},
		},
		"application_context": map[string]string{
			"brand_name":  c.BrandName,
			"user_action": "PAY_NOW",
			"return_url":  fmt.Sprintf("%s/payment-success?provider=paypal&type=subscription&plan=%s", origin, plan.Tier),
			"cancel_url":  origin + "/payment-canceled",
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/v2/checkout/orders", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("paypal order creation failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var order payPalOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, err
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, errors.New("paypal order response missing id")
	}

	approval := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approval = link.Href
			break
		}
	}
	if approval == "" {
		return nil, errors.New("paypal order response missing approval link")
	}

	return &CheckoutOrder{OrderID: order.ID, ApprovalURL: approval}, nil
}

// GetOrderStatus fetches the provider-side status of a checkout order.
func (c *PayPalClient) GetOrderStatus(ctx context.Context, orderID string) (string, error) {
	if strings.TrimSpace(orderID) == "" {
		return "", errors.New("order id is required")
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("paypal order lookup failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var order payPalOrderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return "", err
	}
	return order.Status, nil
}
