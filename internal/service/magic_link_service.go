package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/config"
	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/queue"
	"github.com/jewgo-app/jewgo-api/internal/repository"
)

// MagicLinkService issues and verifies single-use email sign-in links.
type MagicLinkService struct {
	cfg          *config.Config
	tokenRepo    repository.MagicLinkRepository
	userRepo     repository.UserRepository
	userAuth     *UserAuthService
	emailService *EmailService
	queueClient  *queue.Client
}

// NewMagicLinkService creates the magic-link service.
func NewMagicLinkService(
	cfg *config.Config,
	tokenRepo repository.MagicLinkRepository,
	userRepo repository.UserRepository,
	userAuth *UserAuthService,
	emailService *EmailService,
	queueClient *queue.Client,
) *MagicLinkService {
	return &MagicLinkService{
		cfg:          cfg,
		tokenRepo:    tokenRepo,
		userRepo:     userRepo,
		userAuth:     userAuth,
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// Request issues a sign-in link for the email. The purpose is "login" for
// existing accounts and "register" otherwise; the response never reveals
// which, so the endpoint cannot be used to probe for accounts.
func (s *MagicLinkService) Request(email string) error {
	if s == nil || s.tokenRepo == nil || s.userRepo == nil {
		return ErrMagicLinkSendFailed
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	purpose := constants.MagicLinkPurposeRegister
	var userID *uint
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return ErrUserFetchFailed
	}
	if user != nil {
		if strings.ToLower(user.Status) != constants.UserStatusActive {
			return ErrUserDisabled
		}
		purpose = constants.MagicLinkPurposeLogin
		id := user.ID
		userID = &id
	}

	now := time.Now()
	latest, err := s.tokenRepo.GetLatestByEmail(normalized, purpose)
	if err != nil {
		return ErrMagicLinkSendFailed
	}
	if latest != nil {
		interval := time.Duration(resolveMagicLinkSendInterval(s.cfg.Email.MagicLink)) * time.Second
		if !latest.SentAt.IsZero() && now.Sub(latest.SentAt) < interval {
			return ErrMagicLinkThrottled
		}
	}

	token, err := NewRedeemCode()
	if err != nil {
		return ErrMagicLinkSendFailed
	}
	expireMinutes := resolveMagicLinkExpireMinutes(s.cfg.Email.MagicLink)
	record := &models.MagicLinkToken{
		Email:     normalized,
		UserID:    userID,
		Purpose:   purpose,
		Token:     token,
		ExpiresAt: now.Add(time.Duration(expireMinutes) * time.Minute),
		SentAt:    now,
		CreatedAt: now,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return ErrMagicLinkSendFailed
	}

	link := s.buildLink(token)
	if s.queueClient.Enabled() {
		err := s.queueClient.EnqueueMagicLinkEmail(queue.MagicLinkEmailPayload{
			TokenID: record.ID,
			Email:   normalized,
			Link:    link,
			Purpose: purpose,
		})
		if err == nil {
			return nil
		}
		logger.Warnw("magic_link_enqueue_failed", "error", err)
	}
	return s.Deliver(normalized, link)
}

// Deliver sends the link email. Shared by the inline path and the queue
// consumer.
func (s *MagicLinkService) Deliver(email, link string) error {
	if s == nil || s.emailService == nil {
		return ErrMagicLinkSendFailed
	}
	if err := s.emailService.SendMagicLink(email, link, resolveMagicLinkExpireMinutes(s.cfg.Email.MagicLink)); err != nil {
		logger.Errorw("magic_link_send_failed", "error", err)
		return ErrMagicLinkSendFailed
	}
	return nil
}

// Verify exchanges a link token for a signed-in session, creating the account
// on first use. Consumption is a conditional update so a link races to a
// single winner.
func (s *MagicLinkService) Verify(token string) (*models.User, string, time.Time, error) {
	if s == nil || s.tokenRepo == nil || s.userRepo == nil || s.userAuth == nil {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}
	record, err := s.tokenRepo.GetByToken(token)
	if err != nil {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}
	if record == nil {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}

	now := time.Now()
	if record.ConsumedAt != nil {
		return nil, "", time.Time{}, ErrMagicLinkConsumed
	}
	if record.ExpiresAt.Before(now) {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}
	maxAttempts := resolveMagicLinkMaxAttempts(s.cfg.Email.MagicLink)
	if maxAttempts > 0 && record.AttemptCount >= maxAttempts {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}
	if err := s.tokenRepo.IncrementAttempts(record.ID); err != nil {
		logger.Warnw("magic_link_attempt_count_failed", "token_id", record.ID, "error", err)
	}

	rows, err := s.tokenRepo.Consume(record.ID, now)
	if err != nil {
		return nil, "", time.Time{}, ErrMagicLinkNotFound
	}
	if rows == 0 {
		return nil, "", time.Time{}, ErrMagicLinkConsumed
	}

	user, err := s.userRepo.GetByEmail(record.Email)
	if err != nil {
		return nil, "", time.Time{}, ErrUserFetchFailed
	}
	if user == nil {
		user = &models.User{
			Email:           record.Email,
			DisplayName:     resolveNameFromEmail(record.Email),
			Status:          constants.UserStatusActive,
			EmailVerifiedAt: &now,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, "", time.Time{}, ErrUserCreateFailed
		}
	} else {
		if strings.ToLower(user.Status) != constants.UserStatusActive {
			return nil, "", time.Time{}, ErrUserDisabled
		}
		if user.EmailVerifiedAt == nil {
			user.EmailVerifiedAt = &now
			user.UpdatedAt = now
			if err := s.userRepo.Update(user); err != nil {
				logger.Warnw("email_verified_update_failed", "user_id", user.ID, "error", err)
			}
		}
	}

	jwtToken, expiresAt, err := s.userAuth.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, ErrUserFetchFailed
	}
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warnw("last_login_update_failed", "user_id", user.ID, "error", err)
	}

	logger.Infow("magic_link_signed_in", "user_id", user.ID, "purpose", record.Purpose)
	return user, jwtToken, expiresAt, nil
}

// PurgeExpired removes stale tokens. Invoked by the periodic sweep.
func (s *MagicLinkService) PurgeExpired(now time.Time) (int64, error) {
	if s == nil || s.tokenRepo == nil {
		return 0, nil
	}
	return s.tokenRepo.DeleteExpiredBefore(now)
}

func (s *MagicLinkService) buildLink(token string) string {
	base := strings.TrimRight(strings.TrimSpace(s.cfg.Server.BaseURL), "/")
	return fmt.Sprintf("%s/api/v1/auth/magic-link/verify?token=%s", base, token)
}

func resolveMagicLinkExpireMinutes(cfg config.MagicLinkConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 15
	}
	return cfg.ExpireMinutes
}

func resolveMagicLinkSendInterval(cfg config.MagicLinkConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveMagicLinkMaxAttempts(cfg config.MagicLinkConfig) int {
	if cfg.MaxAttempts <= 0 {
		return 5
	}
	return cfg.MaxAttempts
}
