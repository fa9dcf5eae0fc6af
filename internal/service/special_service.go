package service

import (
	"context"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/cache"
	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/queue"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// SpecialService runs the public claim/redeem workflow.
type SpecialService struct {
	specialRepo    repository.SpecialRepository
	claimRepo      repository.ClaimRepository
	eventRepo      repository.SpecialEventRepository
	queueClient    *queue.Client
	cache          *cache.Cache
	activeCacheTTL time.Duration
	qrCodeSize     int
}

// NewSpecialService creates the specials service. readCache may be nil,
// which disables the active-specials read aggregate.
func NewSpecialService(
	specialRepo repository.SpecialRepository,
	claimRepo repository.ClaimRepository,
	eventRepo repository.SpecialEventRepository,
	queueClient *queue.Client,
	readCache *cache.Cache,
	activeCacheTTL time.Duration,
	qrCodeSize int,
) *SpecialService {
	if qrCodeSize <= 0 {
		qrCodeSize = 256
	}
	return &SpecialService{
		specialRepo:    specialRepo,
		claimRepo:      claimRepo,
		eventRepo:      eventRepo,
		queueClient:    queueClient,
		cache:          readCache,
		activeCacheTTL: activeCacheTTL,
		qrCodeSize:     qrCodeSize,
	}
}

// ClaimInput identifies the special and the claimant. Exactly one of UserID /
// GuestSessionID must be set.
type ClaimInput struct {
	SpecialID      uint
	UserID         uint
	GuestSessionID string
}

// RedeemInput identifies the claim being finalized.
type RedeemInput struct {
	SpecialID  uint
	ClaimID    string
	RedeemCode string
}

// TrackInput is one fire-and-forget engagement event.
type TrackInput struct {
	SpecialID  uint
	EventType  string
	UserID     uint
	GuestToken string
}

// ListActiveInput selects a page of specials active inside a time window.
type ListActiveInput struct {
	WindowKind string
	From       string
	Until      string
	Page       int
	PageSize   int
}

// GetSpecial fetches a special by id.
func (s *SpecialService) GetSpecial(id uint) (*models.Special, error) {
	if s == nil || s.specialRepo == nil || id == 0 {
		return nil, ErrSpecialInvalid
	}
	special, err := s.specialRepo.GetByID(id)
	if err != nil {
		return nil, ErrSpecialFetchFailed
	}
	if special == nil {
		return nil, ErrSpecialNotFound
	}
	return special, nil
}

// ListActive returns specials active inside the requested window. The "now"
// window is served from the redis read aggregate when possible; claim
// admission never reads this path.
func (s *SpecialService) ListActive(ctx context.Context, input ListActiveInput) ([]models.Special, int64, error) {
	if s == nil || s.specialRepo == nil {
		return nil, 0, ErrSpecialFetchFailed
	}
	now := time.Now().UTC()
	start, end, err := ParseTimeWindow(input.WindowKind, input.From, input.Until, now)
	if err != nil {
		return nil, 0, err
	}

	kind := strings.TrimSpace(strings.ToLower(input.WindowKind))
	if kind == "" || kind == constants.TimeWindowNow {
		if cached, hit, cacheErr := s.cache.GetActiveSpecials(ctx, constants.TimeWindowNow, input.Page, input.PageSize); cacheErr == nil && hit {
			return cached.Specials, cached.Total, nil
		}
		specials, total, err := s.specialRepo.ListActiveAt(now, input.Page, input.PageSize)
		if err != nil {
			return nil, 0, ErrSpecialFetchFailed
		}
		if cacheErr := s.cache.SetActiveSpecials(ctx, constants.TimeWindowNow, input.Page, input.PageSize, specials, total, s.activeCacheTTL); cacheErr != nil {
			logger.Warnw("active_specials_cache_write_failed", "error", cacheErr)
		}
		return specials, total, nil
	}

	active := true
	specials, total, err := s.specialRepo.List(repository.SpecialListFilter{
		Page:        input.Page,
		PageSize:    input.PageSize,
		IsActive:    &active,
		ActiveFrom:  &start,
		ActiveUntil: &end,
	})
	if err != nil {
		return nil, 0, ErrSpecialFetchFailed
	}
	return specials, total, nil
}

// Claim admits a claim request against the special's caps and inserts one
// claim row, or rejects it. Eligibility checks and the insert run inside one
// transaction holding a row lock on the special, so concurrent claims on the
// same special serialize and the caps never over-admit.
func (s *SpecialService) Claim(input ClaimInput) (*models.SpecialClaim, error) {
	if s == nil || s.specialRepo == nil || s.claimRepo == nil {
		return nil, ErrClaimCreateFailed
	}
	if input.SpecialID == 0 {
		return nil, ErrSpecialNotFound
	}
	guestSessionID := strings.TrimSpace(input.GuestSessionID)
	if input.UserID == 0 && guestSessionID == "" {
		return nil, ErrClaimantMissing
	}
	if input.UserID != 0 && guestSessionID != "" {
		return nil, ErrClaimantMissing
	}

	claimantKey := models.GuestClaimantKey(guestSessionID)
	if input.UserID != 0 {
		claimantKey = models.UserClaimantKey(input.UserID)
	}

	var created *models.SpecialClaim
	err := s.specialRepo.Transaction(func(tx *gorm.DB) error {
		specialRepo := s.specialRepo.WithTx(tx)
		claimRepo := s.claimRepo.WithTx(tx)

		special, err := specialRepo.GetByIDForUpdate(input.SpecialID)
		if err != nil {
			return ErrSpecialFetchFailed
		}
		if special == nil {
			return ErrSpecialNotFound
		}

		now := time.Now().UTC()
		if !special.IsActive {
			return ErrSpecialDisabled
		}
		if now.Before(special.ValidFrom) {
			return ErrSpecialNotStarted
		}
		if now.After(special.ValidUntil) {
			return ErrSpecialExpired
		}

		if special.PerVisit {
			count, err := claimRepo.CountBySpecialAndClaimantOnDay(special.ID, claimantKey, ClaimDay(now))
			if err != nil {
				return ErrClaimFetchFailed
			}
			if count > 0 {
				return ErrClaimAlreadyToday
			}
		} else if special.MaxClaimsPerUser > 0 {
			count, err := claimRepo.CountBySpecialAndClaimant(special.ID, claimantKey)
			if err != nil {
				return ErrClaimFetchFailed
			}
			if count >= int64(special.MaxClaimsPerUser) {
				return ErrClaimPerUserLimit
			}
		}

		if special.MaxClaimsTotal != nil {
			count, err := claimRepo.CountBySpecial(special.ID)
			if err != nil {
				return ErrClaimFetchFailed
			}
			if count >= int64(*special.MaxClaimsTotal) {
				return ErrClaimTotalLimit
			}
		}

		code, err := NewRedeemCode()
		if err != nil {
			return ErrClaimCreateFailed
		}
		claim := &models.SpecialClaim{
			ID:          uuid.NewString(),
			SpecialID:   special.ID,
			ClaimantKey: claimantKey,
			Status:      constants.ClaimStatusClaimed,
			RedeemCode:  code,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if input.UserID != 0 {
			userID := input.UserID
			claim.UserID = &userID
		} else {
			sessionID := guestSessionID
			claim.GuestSessionID = &sessionID
		}
		if special.PerVisit {
			claim.ClaimDay = ClaimDay(now)
		}

		if err := claimRepo.Create(claim); err != nil {
			// The per-visit unique index is the backstop for races the lock
			// cannot see (e.g. claims admitted before a crash-recovery).
			if isUniqueViolation(err) {
				return ErrClaimAlreadyToday
			}
			return ErrClaimCreateFailed
		}
		created = claim
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("special_claimed",
		"special_id", created.SpecialID,
		"claim_id", created.ID,
		"claimant", created.ClaimantKey,
	)
	return created, nil
}

// Redeem finalizes a claim. The claimed→redeemed transition is one
// conditional update; its affected-row count is the only success signal, so a
// double redemption always loses.
func (s *SpecialService) Redeem(input RedeemInput) (*models.SpecialClaim, error) {
	if s == nil || s.specialRepo == nil || s.claimRepo == nil {
		return nil, ErrClaimFetchFailed
	}
	claimID := strings.TrimSpace(input.ClaimID)
	if input.SpecialID == 0 || claimID == "" {
		return nil, ErrClaimNotFound
	}

	special, err := s.specialRepo.GetByID(input.SpecialID)
	if err != nil {
		return nil, ErrSpecialFetchFailed
	}
	if special == nil {
		return nil, ErrSpecialNotFound
	}

	claim, err := s.claimRepo.GetBySpecialAndID(input.SpecialID, claimID)
	if err != nil {
		return nil, ErrClaimFetchFailed
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}

	if special.RequiresCode {
		supplied := strings.TrimSpace(input.RedeemCode)
		if supplied == "" {
			return nil, ErrRedeemCodeRequired
		}
		if supplied != claim.RedeemCode {
			return nil, ErrRedeemCodeMismatch
		}
	}

	now := time.Now().UTC()
	rows, err := s.claimRepo.MarkRedeemed(input.SpecialID, claimID, now)
	if err != nil {
		return nil, ErrClaimFetchFailed
	}
	if rows == 0 {
		return nil, ErrClaimNotRedeemable
	}

	claim.Status = constants.ClaimStatusRedeemed
	claim.RedeemedAt = &now
	claim.UpdatedAt = now

	logger.Infow("special_redeemed",
		"special_id", claim.SpecialID,
		"claim_id", claim.ID,
	)
	return claim, nil
}

// Track records an engagement event. Delivery is best effort: when the queue
// is up the event is ingested asynchronously, otherwise it is written inline.
func (s *SpecialService) Track(input TrackInput) error {
	if s == nil || s.eventRepo == nil {
		return ErrEventTypeInvalid
	}
	eventType := strings.TrimSpace(strings.ToLower(input.EventType))
	switch eventType {
	case constants.SpecialEventView, constants.SpecialEventShare, constants.SpecialEventClick:
	default:
		return ErrEventTypeInvalid
	}
	if input.SpecialID == 0 {
		return ErrSpecialNotFound
	}

	now := time.Now().UTC()
	if s.queueClient.Enabled() {
		payload := queue.SpecialEventIngestPayload{
			SpecialID:  input.SpecialID,
			EventType:  eventType,
			GuestToken: strings.TrimSpace(input.GuestToken),
			OccurredAt: now,
		}
		if input.UserID != 0 {
			userID := input.UserID
			payload.UserID = &userID
		}
		if err := s.queueClient.EnqueueSpecialEventIngest(payload); err == nil {
			return nil
		}
		// fall through to the inline write on enqueue failure
	}
	return s.IngestEvent(input.SpecialID, eventType, input.UserID, input.GuestToken, now)
}

// IngestEvent persists one engagement event. Shared by the inline path and
// the queue consumer.
func (s *SpecialService) IngestEvent(specialID uint, eventType string, userID uint, guestToken string, at time.Time) error {
	if s == nil || s.eventRepo == nil {
		return ErrEventTypeInvalid
	}
	event := &models.SpecialEvent{
		SpecialID:  specialID,
		EventType:  eventType,
		OccurredAt: at,
		CreatedAt:  at,
	}
	if userID != 0 {
		uid := userID
		event.UserID = &uid
	}
	if token := strings.TrimSpace(guestToken); token != "" {
		event.GuestSessionID = &token
	}
	if err := s.eventRepo.Create(event); err != nil {
		logger.Warnw("special_event_write_failed",
			"special_id", specialID,
			"event_type", eventType,
			"error", err,
		)
		return err
	}
	return nil
}

// ClaimQRCode renders a claim's redeem code as a PNG for in-store scanning.
func (s *SpecialService) ClaimQRCode(specialID uint, claimID string) ([]byte, error) {
	if s == nil || s.claimRepo == nil {
		return nil, ErrClaimFetchFailed
	}
	claim, err := s.claimRepo.GetBySpecialAndID(specialID, strings.TrimSpace(claimID))
	if err != nil {
		return nil, ErrClaimFetchFailed
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	if claim.Status != constants.ClaimStatusClaimed {
		return nil, ErrClaimNotRedeemable
	}
	png, err := qrcode.Encode(claim.RedeemCode, qrcode.Medium, s.qrCodeSize)
	if err != nil {
		return nil, ErrClaimFetchFailed
	}
	return png, nil
}

// GetClaim fetches a claim scoped to its special.
func (s *SpecialService) GetClaim(specialID uint, claimID string) (*models.SpecialClaim, error) {
	if s == nil || s.claimRepo == nil {
		return nil, ErrClaimFetchFailed
	}
	claim, err := s.claimRepo.GetBySpecialAndID(specialID, strings.TrimSpace(claimID))
	if err != nil {
		return nil, ErrClaimFetchFailed
	}
	if claim == nil {
		return nil, ErrClaimNotFound
	}
	return claim, nil
}

// EffectiveClaimStatus overlays computed expiry on the stored status. The
// sweep persists expiry lazily, so reads derive it from the special's window.
func EffectiveClaimStatus(claim *models.SpecialClaim, special *models.Special, now time.Time) string {
	if claim == nil {
		return ""
	}
	if claim.Status == constants.ClaimStatusClaimed && special != nil && now.After(special.ValidUntil) {
		return constants.ClaimStatusExpired
	}
	return claim.Status
}

// ExpireOverdueClaims marks open claims on lapsed specials as expired.
// Invoked by the periodic sweep.
func (s *SpecialService) ExpireOverdueClaims(now time.Time) (int64, error) {
	if s == nil || s.claimRepo == nil {
		return 0, ErrClaimFetchFailed
	}
	rows, err := s.claimRepo.ExpireOverdue(now)
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		logger.Infow("claims_expired", "count", rows)
	}
	return rows, nil
}

// RefreshActiveAggregate refreshes the active-specials read aggregate.
func (s *SpecialService) RefreshActiveAggregate() error {
	if s == nil || s.specialRepo == nil {
		return ErrSpecialFetchFailed
	}
	return s.specialRepo.RefreshActiveView()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
