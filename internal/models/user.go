package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an end-user account.
type User struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"default:''" json:"-"` // empty for OAuth/magic-link-only accounts
	DisplayName     string         `gorm:"default:''" json:"display_name"`
	AvatarURL       string         `gorm:"default:''" json:"avatar_url"`
	Status          string         `gorm:"default:'active'" json:"status"`
	OAuthProvider   string         `gorm:"column:oauth_provider;index;default:''" json:"-"` // e.g. "google" when federated
	OAuthSubject    string         `gorm:"column:oauth_subject;index;default:''" json:"-"`  // provider's stable user id
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	LastLoginAt     *time.Time     `json:"last_login_at"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
