package models

import (
	"time"

	"gorm.io/gorm"
)

// MagicLinkToken is a single-use, expiring email sign-in token.
type MagicLinkToken struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"index;not null" json:"email"`
	UserID       *uint          `gorm:"index" json:"user_id"`
	Purpose      string         `gorm:"index;not null" json:"purpose"` // login / register
	Token        string         `gorm:"uniqueIndex;not null" json:"-"` // URL-safe random token, never returned
	ExpiresAt    time.Time      `gorm:"index" json:"expires_at"`
	ConsumedAt   *time.Time     `gorm:"index" json:"consumed_at"`
	AttemptCount int            `gorm:"default:0" json:"attempt_count"`
	SentAt       time.Time      `gorm:"index" json:"sent_at"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (MagicLinkToken) TableName() string {
	return "magic_link_tokens"
}
