package models

import "time"

// Subscription provider constants used across billing-related models.
const (
	SubscriptionProviderPayPal = "paypal"
	SubscriptionProviderStripe = "stripe"
)

const (
	ProfileSubscriptionActive    = "active"
	ProfileSubscriptionCancelled = "cancelled"
	ProfileSubscriptionNone      = "none"
)

// Profile holds user-facing profile data plus a denormalized copy of the
// subscription state. The subscription fields are written redundantly by the
// same event that writes the PayPalSubscription row; the two writes are not
// transactional and can diverge on partial failure.
type Profile struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	DisplayName          string     `gorm:"type:varchar(150)" json:"display_name"`
	AvatarURL            string     `gorm:"type:varchar(255);default:null" json:"avatar_url,omitempty"`
	ProfileType          string     `gorm:"type:varchar(20);default:'adult'" json:"profile_type"`
	SubscriptionTier     string     `gorm:"type:varchar(50);default:null" json:"subscription_tier,omitempty"`
	SubscriptionStatus   string     `gorm:"type:varchar(32);default:'none';index" json:"subscription_status"`
	SubscriptionProvider string     `gorm:"type:varchar(20);default:null" json:"subscription_provider,omitempty"`
	SubscriptionID       string     `gorm:"type:varchar(191);default:null" json:"subscription_id,omitempty"`
	IsActive             bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt          *time.Time `gorm:"type:timestamp;default:null" json:"last_login_at,omitempty"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasActiveSubscription reports whether the denormalized status says active.
func (p *Profile) HasActiveSubscription() bool {
	return p.SubscriptionStatus == ProfileSubscriptionActive
}
