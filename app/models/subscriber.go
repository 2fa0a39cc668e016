package models

import "time"

// Subscriber is the legacy billing record kept from the first Stripe
// integration. It is read as a best-effort secondary signal only; the
// legacy backend that maintained it may be absent in a deployment.
type Subscriber struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           *uint      `gorm:"index" json:"user_id,omitempty"`
	Email            string     `gorm:"type:varchar(200);not null;index" json:"email"`
	StripeCustomerID string     `gorm:"type:varchar(191);default:null" json:"stripe_customer_id,omitempty"`
	Subscribed       bool       `gorm:"default:false" json:"subscribed"`
	SubscriptionTier string     `gorm:"type:varchar(50);default:null" json:"subscription_tier,omitempty"`
	SubscriptionEnd  *time.Time `gorm:"type:timestamp;default:null" json:"subscription_end,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
