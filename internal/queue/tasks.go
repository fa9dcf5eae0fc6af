package queue

import (
	"encoding/json"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskMagicLinkEmail delivers a sign-in link over SMTP.
	TaskMagicLinkEmail = constants.TaskMagicLinkEmail
	// TaskSpecialEventIngest persists a fire-and-forget engagement event.
	TaskSpecialEventIngest = constants.TaskSpecialEventIngest
	// TaskActiveSpecialRefresh refreshes the active-specials read aggregate.
	TaskActiveSpecialRefresh = constants.TaskActiveSpecialRefresh
	// TaskClaimExpireSweep expires open claims on lapsed specials.
	TaskClaimExpireSweep = constants.TaskClaimExpireSweep
)

// MagicLinkEmailPayload carries a pending sign-in link.
type MagicLinkEmailPayload struct {
	TokenID uint   `json:"token_id"`
	Email   string `json:"email"`
	Link    string `json:"link"`
	Purpose string `json:"purpose"`
}

// SpecialEventIngestPayload carries one engagement event.
type SpecialEventIngestPayload struct {
	SpecialID  uint      `json:"special_id"`
	EventType  string    `json:"event_type"`
	UserID     *uint     `json:"user_id"`
	GuestToken string    `json:"guest_token"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActiveSpecialRefreshPayload triggers an aggregate refresh.
type ActiveSpecialRefreshPayload struct {
	Reason string `json:"reason"`
}

// ClaimExpireSweepPayload triggers an expiry sweep.
type ClaimExpireSweepPayload struct {
	Now time.Time `json:"now"`
}

// NewMagicLinkEmailTask builds the email delivery task.
func NewMagicLinkEmailTask(payload MagicLinkEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMagicLinkEmail, body), nil
}

// NewSpecialEventIngestTask builds the event ingest task.
func NewSpecialEventIngestTask(payload SpecialEventIngestPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSpecialEventIngest, body), nil
}

// NewActiveSpecialRefreshTask builds the aggregate refresh task.
func NewActiveSpecialRefreshTask(payload ActiveSpecialRefreshPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskActiveSpecialRefresh, body), nil
}

// NewClaimExpireSweepTask builds the expiry sweep task.
func NewClaimExpireSweepTask(payload ClaimExpireSweepPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskClaimExpireSweep, body), nil
}
