package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// GuestSessionRepository is the guest session data access interface.
type GuestSessionRepository interface {
	Get(id string) (*models.GuestSession, error)
	Create(session *models.GuestSession) error
	Touch(id string, at time.Time) error
	DeleteIdleSince(cutoff time.Time) (int64, error)
}

// GormGuestSessionRepository is the GORM implementation.
type GormGuestSessionRepository struct {
	db *gorm.DB
}

// NewGuestSessionRepository creates a guest session repository.
func NewGuestSessionRepository(db *gorm.DB) *GormGuestSessionRepository {
	return &GormGuestSessionRepository{db: db}
}

// Get fetches a guest session by token.
func (r *GormGuestSessionRepository) Get(id string) (*models.GuestSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var session models.GuestSession
	if err := r.db.Where("id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

// Create inserts a guest session.
func (r *GormGuestSessionRepository) Create(session *models.GuestSession) error {
	return r.db.Create(session).Error
}

// Touch updates the last-seen timestamp.
func (r *GormGuestSessionRepository) Touch(id string, at time.Time) error {
	return r.db.Model(&models.GuestSession{}).Where("id = ?", id).Update("last_seen_at", at).Error
}

// DeleteIdleSince removes guest sessions idle since the cutoff.
func (r *GormGuestSessionRepository) DeleteIdleSince(cutoff time.Time) (int64, error) {
	result := r.db.Where("last_seen_at < ?", cutoff).Delete(&models.GuestSession{})
	return result.RowsAffected, result.Error
}
