package billing

import "time"

// PayPalSubscriptionData is the normalized shape returned by status lookups
// against the locally persisted PayPal subscription records.
type PayPalSubscriptionData struct {
	SubscriptionID  string     `json:"subscription_id"`
	Plan            string     `json:"plan"`
	Status          string     `json:"status"`
	Amount          float64    `json:"amount"`
	StartTime       time.Time  `json:"start_time"`
	NextBillingTime *time.Time `json:"next_billing_time,omitempty"`
}

// CheckoutOrder is the result of creating a PayPal checkout order: the
// provider order id and the URL the user must be redirected to for approval.
type CheckoutOrder struct {
	OrderID     string `json:"order_id"`
	ApprovalURL string `json:"approval_url"`
}

// LegacyCheckResult is the payload of the legacy billing backend's
// check-subscription function.
type LegacyCheckResult struct {
	Subscribed       bool       `json:"subscribed"`
	SubscriptionTier string     `json:"subscription_tier"`
	SubscriptionEnd  *time.Time `json:"subscription_end,omitempty"`
}
