package models

import "time"

const (
	PayPalStatusActive    = "ACTIVE"
	PayPalStatusCancelled = "CANCELLED"
	PayPalStatusPending   = "PENDING"
)

// PayPalSubscription mirrors a PayPal subscription for a user. Rows are
// created on checkout approval and flipped to CANCELLED on local
// cancellation; they are never hard-deleted.
type PayPalSubscription struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;index:idx_paypal_subscriptions_user_status,priority:1" json:"user_id"`
	PayPalSubscriptionID string     `gorm:"type:varchar(191);not null;uniqueIndex" json:"paypal_subscription_id"`
	PlanName             string     `gorm:"type:varchar(50);not null" json:"plan_name"`
	Status               string     `gorm:"type:varchar(32);not null;default:'PENDING';index:idx_paypal_subscriptions_user_status,priority:2" json:"status"`
	Amount               float64    `gorm:"type:decimal(10,2);default:0" json:"amount"`
	NextBillingTime      *time.Time `gorm:"type:timestamp;default:null" json:"next_billing_time,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the record still entitles the user.
func (s *PayPalSubscription) IsActive() bool {
	return s.Status == PayPalStatusActive
}
