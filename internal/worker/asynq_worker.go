package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/provider"
	"github.com/jewgo-app/jewgo-api/internal/queue"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the asynchronous task queue.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register attaches the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskMagicLinkEmail, c.handleMagicLinkEmail)
	mux.HandleFunc(queue.TaskSpecialEventIngest, c.handleSpecialEventIngest)
	mux.HandleFunc(queue.TaskActiveSpecialRefresh, c.handleActiveSpecialRefresh)
	mux.HandleFunc(queue.TaskClaimExpireSweep, c.handleClaimExpireSweep)
}

func (c *Consumer) handleMagicLinkEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_magic_link_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.MagicLinkEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_magic_link_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" || strings.TrimSpace(payload.Link) == "" {
		logger.Debugw("worker_magic_link_email_skip_invalid_payload", "token_id", payload.TokenID)
		return nil
	}
	if c.MagicLinkService == nil {
		logger.Warnw("worker_magic_link_email_skip_service_nil", "token_id", payload.TokenID)
		return nil
	}
	if err := c.MagicLinkService.Deliver(email, payload.Link); err != nil {
		logger.Warnw("worker_magic_link_email_send_failed",
			"token_id", payload.TokenID,
			"purpose", payload.Purpose,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleSpecialEventIngest(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_special_event_ingest_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SpecialEventIngestPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_special_event_ingest_unmarshal_failed", "error", err)
		return err
	}
	if payload.SpecialID == 0 || strings.TrimSpace(payload.EventType) == "" {
		logger.Debugw("worker_special_event_ingest_skip_invalid_payload", "special_id", payload.SpecialID)
		return nil
	}
	if c.SpecialService == nil {
		logger.Warnw("worker_special_event_ingest_skip_service_nil", "special_id", payload.SpecialID)
		return nil
	}
	occurredAt := payload.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}
	var userID uint
	if payload.UserID != nil {
		userID = *payload.UserID
	}
	err := c.SpecialService.IngestEvent(payload.SpecialID, payload.EventType, userID, payload.GuestToken, occurredAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventTypeInvalid):
			logger.Debugw("worker_special_event_ingest_skip_invalid_type", "special_id", payload.SpecialID, "event_type", payload.EventType)
			return nil
		case errors.Is(err, service.ErrSpecialNotFound):
			logger.Debugw("worker_special_event_ingest_skip_special_not_found", "special_id", payload.SpecialID)
			return nil
		default:
			logger.Warnw("worker_special_event_ingest_failed", "special_id", payload.SpecialID, "error", err)
			return err
		}
	}
	return nil
}

func (c *Consumer) handleActiveSpecialRefresh(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_active_special_refresh_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ActiveSpecialRefreshPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_active_special_refresh_unmarshal_failed", "error", err)
		return err
	}
	if c.SpecialService == nil {
		logger.Warnw("worker_active_special_refresh_skip_service_nil", "reason", payload.Reason)
		return nil
	}
	if err := c.SpecialService.RefreshActiveAggregate(); err != nil {
		logger.Warnw("worker_active_special_refresh_failed", "reason", payload.Reason, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleClaimExpireSweep(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_claim_expire_sweep_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.ClaimExpireSweepPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_claim_expire_sweep_unmarshal_failed", "error", err)
		return err
	}
	now := payload.Now
	if now.IsZero() {
		now = time.Now()
	}
	if c.SpecialService == nil {
		logger.Warnw("worker_claim_expire_sweep_skip_service_nil")
		return nil
	}
	expired, err := c.SpecialService.ExpireOverdueClaims(now)
	if err != nil {
		logger.Warnw("worker_claim_expire_sweep_failed", "error", err)
		return err
	}
	if expired > 0 {
		logger.Infow("worker_claim_expire_sweep_done", "expired", expired)
	}
	return nil
}
