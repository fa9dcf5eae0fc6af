package models

import (
	"time"
)

// GuestSession is an unauthenticated claimant identity scoped to a browser.
type GuestSession struct {
	ID         string    `gorm:"primarykey;type:varchar(64)" json:"id"` // opaque UUID token
	UserAgent  string    `gorm:"default:''" json:"-"`
	ClientIP   string    `gorm:"default:''" json:"-"`
	LastSeenAt time.Time `gorm:"index" json:"last_seen_at"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName sets the table name.
func (GuestSession) TableName() string {
	return "guest_sessions"
}
