package models

import (
	"time"

	"gorm.io/gorm"
)

// Restaurant is a kosher restaurant directory entry.
type Restaurant struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	Slug           string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description    string         `gorm:"type:text" json:"description"`
	Address        string         `gorm:"not null" json:"address"`
	City           string         `gorm:"index" json:"city"`
	State          string         `gorm:"index" json:"state"`
	ZipCode        string         `json:"zip_code"`
	Latitude       float64        `json:"latitude"`
	Longitude      float64        `json:"longitude"`
	Phone          string         `json:"phone"`
	Website        string         `json:"website"`
	KosherCategory string         `gorm:"index;default:'unknown'" json:"kosher_category"` // meat / dairy / pareve / unknown
	CertifyingBody string         `gorm:"index" json:"certifying_body"`                   // supervising agency, e.g. "ORB"
	HoursJSON      string         `gorm:"type:text" json:"hours_json"`                    // opening hours, JSON blob
	ImageURL       string         `gorm:"default:''" json:"image_url"`
	OwnerUserID    *uint          `gorm:"index" json:"owner_user_id"`
	Status         string         `gorm:"index;default:'pending_approval'" json:"status"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Restaurant) TableName() string {
	return "restaurants"
}
