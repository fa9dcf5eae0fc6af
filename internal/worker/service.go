package worker

import (
	"context"
	"errors"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/config"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Service runs the asynq consumer plus the periodic maintenance loops.
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer

	refreshInterval time.Duration
	sweepInterval   time.Duration
}

// NewService creates the queue worker service.
func NewService(cfg *config.Config, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Queue.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(&cfg.Queue)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)

	refreshInterval := time.Duration(cfg.Specials.RefreshIntervalMinutes) * time.Minute
	if refreshInterval <= 0 {
		refreshInterval = 5 * time.Minute
	}
	sweepInterval := time.Duration(cfg.Specials.ExpireSweepMinutes) * time.Minute
	if sweepInterval <= 0 {
		sweepInterval = 30 * time.Minute
	}

	return &Service{
		name:            "worker",
		server:          server,
		mux:             mux,
		consumer:        consumer,
		refreshInterval: refreshInterval,
		sweepInterval:   sweepInterval,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the consumer until the context is cancelled.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.SpecialService != nil {
		go s.runActiveRefreshLoop(ctx)
		go s.runExpireSweepLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts down the consumer.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runActiveRefreshLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.SpecialService == nil {
		return
	}
	runOnce := func() {
		if err := s.consumer.SpecialService.RefreshActiveAggregate(); err != nil {
			logger.Warnw("worker_active_refresh_loop_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}

func (s *Service) runExpireSweepLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.SpecialService == nil {
		return
	}
	runOnce := func() {
		now := time.Now()
		if expired, err := s.consumer.SpecialService.ExpireOverdueClaims(now); err != nil {
			logger.Warnw("worker_expire_sweep_loop_failed", "error", err)
		} else if expired > 0 {
			logger.Infow("worker_expire_sweep_loop_done", "expired", expired)
		}
		if s.consumer.MagicLinkService != nil {
			if _, err := s.consumer.MagicLinkService.PurgeExpired(now); err != nil {
				logger.Warnw("worker_magic_link_purge_failed", "error", err)
			}
		}
		if s.consumer.GuestSessionService != nil {
			if _, err := s.consumer.GuestSessionService.PurgeIdle(now); err != nil {
				logger.Warnw("worker_guest_session_purge_failed", "error", err)
			}
		}
	}
	runOnce()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
