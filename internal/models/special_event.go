package models

import (
	"time"
)

// SpecialEvent is a fire-and-forget analytics row (view/share/click).
type SpecialEvent struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	SpecialID      uint      `gorm:"index;not null" json:"special_id"`
	EventType      string    `gorm:"index;not null" json:"event_type"` // view / share / click
	UserID         *uint     `gorm:"index" json:"user_id"`
	GuestSessionID *string   `gorm:"type:varchar(64)" json:"guest_session_id"`
	OccurredAt     time.Time `gorm:"index;not null" json:"occurred_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName sets the table name.
func (SpecialEvent) TableName() string {
	return "special_events"
}
