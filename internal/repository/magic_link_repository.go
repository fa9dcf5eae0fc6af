package repository

import (
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// MagicLinkRepository is the magic-link token data access interface.
type MagicLinkRepository interface {
	Create(token *models.MagicLinkToken) error
	GetByToken(token string) (*models.MagicLinkToken, error)
	GetLatestByEmail(email, purpose string) (*models.MagicLinkToken, error)
	Consume(id uint, at time.Time) (int64, error)
	IncrementAttempts(id uint) error
	DeleteExpiredBefore(cutoff time.Time) (int64, error)
}

// GormMagicLinkRepository is the GORM implementation.
type GormMagicLinkRepository struct {
	db *gorm.DB
}

// NewMagicLinkRepository creates a magic-link token repository.
func NewMagicLinkRepository(db *gorm.DB) *GormMagicLinkRepository {
	return &GormMagicLinkRepository{db: db}
}

// Create inserts a token row.
func (r *GormMagicLinkRepository) Create(token *models.MagicLinkToken) error {
	return r.db.Create(token).Error
}

// GetByToken fetches a token row by its opaque value.
func (r *GormMagicLinkRepository) GetByToken(token string) (*models.MagicLinkToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	var row models.MagicLinkToken
	result := r.db.Where("token = ?", token).Limit(1).Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// GetLatestByEmail fetches the most recent token for an email and purpose.
func (r *GormMagicLinkRepository) GetLatestByEmail(email, purpose string) (*models.MagicLinkToken, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var row models.MagicLinkToken
	result := r.db.Where("email = ? AND purpose = ?", email, purpose).
		Order("id desc").Limit(1).Find(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &row, nil
}

// Consume marks a token used as a conditional update so a link can only ever
// be exchanged once.
func (r *GormMagicLinkRepository) Consume(id uint, at time.Time) (int64, error) {
	result := r.db.Model(&models.MagicLinkToken{}).
		Where("id = ? AND consumed_at IS NULL", id).
		Update("consumed_at", at)
	return result.RowsAffected, result.Error
}

// IncrementAttempts bumps the verification attempt counter.
func (r *GormMagicLinkRepository) IncrementAttempts(id uint) error {
	return r.db.Model(&models.MagicLinkToken{}).
		Where("id = ?", id).
		UpdateColumn("attempt_count", gorm.Expr("attempt_count + 1")).Error
}

// DeleteExpiredBefore removes stale token rows.
func (r *GormMagicLinkRepository) DeleteExpiredBefore(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at < ?", cutoff).Delete(&models.MagicLinkToken{})
	return result.RowsAffected, result.Error
}
