package models

import (
	"time"

	"gorm.io/gorm"
)

// Special is a time-bounded discount offer attached to a restaurant.
type Special struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                        // primary key
	RestaurantID     uint           `gorm:"index;not null" json:"restaurant_id"`                         // owning restaurant
	Title            string         `gorm:"not null" json:"title"`                                       // short title
	Description      string         `gorm:"type:text" json:"description"`                                // long description
	DiscountKind     string         `gorm:"not null" json:"discount_kind"`                               // percentage / fixed_amount / other
	DiscountValue    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"discount_value"` // numeric value of the discount
	DiscountLabel    string         `gorm:"not null" json:"discount_label"`                              // human readable label, e.g. "10% off lunch"
	ValidFrom        time.Time      `gorm:"index;not null" json:"valid_from"`                            // window start (inclusive)
	ValidUntil       time.Time      `gorm:"index;not null" json:"valid_until"`                           // window end (inclusive)
	MaxClaimsTotal   *int           `json:"max_claims_total"`                                            // total claim cap, nil = unlimited
	MaxClaimsPerUser int            `gorm:"not null;default:1" json:"max_claims_per_user"`               // lifetime cap per claimant when per_visit is false
	PerVisit         bool           `gorm:"not null;default:false" json:"per_visit"`                     // one claim per claimant per UTC calendar day
	IsActive         bool           `gorm:"not null" json:"is_active"`                                   // kill switch; no column default so a disabled insert stays disabled
	RequiresCode     bool           `gorm:"not null;default:false" json:"requires_code"`                 // redemption needs the claim's code
	Terms            string         `gorm:"type:text" json:"terms"`                                      // fine print
	HeroImageURL     string         `gorm:"default:''" json:"hero_image_url"`                            // promo image
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Special) TableName() string {
	return "specials"
}
