package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SpecialClaim records a claimant's intent to redeem a Special.
// Exactly one of UserID / GuestSessionID is set.
type SpecialClaim struct {
	ID             string         `gorm:"primarykey;type:varchar(36)" json:"id"`          // UUID
	SpecialID      uint           `gorm:"index;not null" json:"special_id"`               // claimed special
	UserID         *uint          `gorm:"index" json:"user_id"`                           // authenticated claimant
	GuestSessionID *string        `gorm:"index;type:varchar(64)" json:"guest_session_id"` // guest claimant
	ClaimantKey    string         `gorm:"index;not null" json:"-"`                        // "u:<id>" or "g:<token>", backs the per-visit unique index
	ClaimDay       string         `gorm:"not null;default:''" json:"-"`                   // UTC day (YYYY-MM-DD); set only for per-visit claims
	Status         string         `gorm:"index;not null;default:'claimed'" json:"status"` // claimed / redeemed / expired / cancelled
	RedeemCode     string         `gorm:"not null" json:"redeem_code"`                    // URL-safe random token
	RedeemedAt     *time.Time     `json:"redeemed_at"`                                    // set on redemption
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (SpecialClaim) TableName() string {
	return "special_claims"
}

// UserClaimantKey builds the claimant key for an authenticated user.
func UserClaimantKey(userID uint) string {
	return fmt.Sprintf("u:%d", userID)
}

// GuestClaimantKey builds the claimant key for a guest session.
func GuestClaimantKey(sessionID string) string {
	return "g:" + sessionID
}
