package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Viewing profile types. Kids and teen profiles exist for maturity filtering
// on the client side.
const (
	ProfileTypeAdult = "adult"
	ProfileTypeTeen  = "teen"
	ProfileTypeKids  = "kids"
)

// MaxViewingProfiles caps how many viewing profiles one account can hold.
const MaxViewingProfiles = 4

// ViewingProfile is one of up to four named "who is watching" profiles per
// account. The first profile created becomes the main profile, which cannot
// be deleted.
type ViewingProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=1,max=100"`
	AvatarID  string    `gorm:"type:varchar(50);default:null" json:"avatar_id,omitempty" validate:"max=50"`
	Type      string    `gorm:"type:varchar(10);default:'adult'" json:"type" validate:"oneof=adult teen kids"`
	IsMain    bool      `gorm:"default:false" json:"is_main"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *ViewingProfile) Validate() error {
	v := validator.New()

	return v.Struct(p)
}
