package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing is a marketplace classified posted by a user.
type Listing struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	SellerID    uint           `gorm:"index;not null" json:"seller_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`
	City        string         `gorm:"index" json:"city"`
	ImageURLs   string         `gorm:"type:text" json:"image_urls"`           // JSON array of URLs
	Status      string         `gorm:"index;default:'pending'" json:"status"` // pending / active / sold / removed
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Listing) TableName() string {
	return "listings"
}
