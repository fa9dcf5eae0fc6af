package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin is a back-office operator account. Restaurant staff accounts also
// live here, scoped to a restaurant via RestaurantID.
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsSuper      bool           `gorm:"not null;default:false;index" json:"is_super"` // super admins bypass role checks
	RestaurantID *uint          `gorm:"index" json:"restaurant_id"`                   // set for restaurant staff accounts
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Admin) TableName() string {
	return "admins"
}
