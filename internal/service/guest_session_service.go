package service

import (
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/google/uuid"
)

// guestSessionIdleCutoff is how long an untouched guest session survives.
const guestSessionIdleCutoff = 90 * 24 * time.Hour

// GuestSessionService mints and validates anonymous claimant identities.
type GuestSessionService struct {
	sessionRepo repository.GuestSessionRepository
}

// NewGuestSessionService creates the guest session service.
func NewGuestSessionService(sessionRepo repository.GuestSessionRepository) *GuestSessionService {
	return &GuestSessionService{sessionRepo: sessionRepo}
}

// Issue creates a new guest session token.
func (s *GuestSessionService) Issue(userAgent, clientIP string) (*models.GuestSession, error) {
	if s == nil || s.sessionRepo == nil {
		return nil, ErrGuestSessionNotFound
	}
	now := time.Now()
	session := &models.GuestSession{
		ID:         uuid.NewString(),
		UserAgent:  strings.TrimSpace(userAgent),
		ClientIP:   strings.TrimSpace(clientIP),
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve validates a guest session token and refreshes its last-seen mark.
// Claims only accept guest identities that went through here, so an
// arbitrary string in the request body never becomes a claimant.
func (s *GuestSessionService) Resolve(id string) (*models.GuestSession, error) {
	if s == nil || s.sessionRepo == nil {
		return nil, ErrGuestSessionNotFound
	}
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, ErrGuestSessionNotFound
	}
	session, err := s.sessionRepo.Get(trimmed)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrGuestSessionNotFound
	}
	if err := s.sessionRepo.Touch(session.ID, time.Now()); err != nil {
		return nil, err
	}
	return session, nil
}

// PurgeIdle removes sessions untouched past the idle cutoff.
func (s *GuestSessionService) PurgeIdle(now time.Time) (int64, error) {
	if s == nil || s.sessionRepo == nil {
		return 0, nil
	}
	return s.sessionRepo.DeleteIdleSince(now.Add(-guestSessionIdleCutoff))
}
