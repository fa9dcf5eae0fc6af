package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// ClaimRepository is the special-claims data access interface.
type ClaimRepository interface {
	GetByID(id string) (*models.SpecialClaim, error)
	GetBySpecialAndID(specialID uint, id string) (*models.SpecialClaim, error)
	Create(claim *models.SpecialClaim) error
	CountBySpecial(specialID uint) (int64, error)
	CountBySpecialAndClaimant(specialID uint, claimantKey string) (int64, error)
	CountBySpecialAndClaimantOnDay(specialID uint, claimantKey, day string) (int64, error)
	MarkRedeemed(specialID uint, id string, at time.Time) (int64, error)
	Cancel(specialID uint, id string) (int64, error)
	ExpireOverdue(now time.Time) (int64, error)
	List(filter ClaimListFilter) ([]models.SpecialClaim, int64, error)
	WithTx(tx *gorm.DB) *GormClaimRepository
}

// GormClaimRepository is the GORM implementation.
type GormClaimRepository struct {
	db *gorm.DB
}

// NewClaimRepository creates a claims repository.
func NewClaimRepository(db *gorm.DB) *GormClaimRepository {
	return &GormClaimRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormClaimRepository) WithTx(tx *gorm.DB) *GormClaimRepository {
	if tx == nil {
		return r
	}
	return &GormClaimRepository{db: tx}
}

// GetByID fetches a claim by its UUID.
func (r *GormClaimRepository) GetByID(id string) (*models.SpecialClaim, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	var claim models.SpecialClaim
	if err := r.db.Where("id = ?", id).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// GetBySpecialAndID fetches a claim that belongs to the given special.
func (r *GormClaimRepository) GetBySpecialAndID(specialID uint, id string) (*models.SpecialClaim, error) {
	id = strings.TrimSpace(id)
	if id == "" || specialID == 0 {
		return nil, nil
	}
	var claim models.SpecialClaim
	result := r.db.Where("special_id = ? AND id = ?", specialID, id).Limit(1).Find(&claim)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &claim, nil
}

// Create inserts a claim.
func (r *GormClaimRepository) Create(claim *models.SpecialClaim) error {
	return r.db.Create(claim).Error
}

// CountBySpecial counts non-cancelled claims for a special.
func (r *GormClaimRepository) CountBySpecial(specialID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.SpecialClaim{}).
		Where("special_id = ? AND status != ?", specialID, constants.ClaimStatusCancelled).
		Count(&count).Error
	return count, err
}

// CountBySpecialAndClaimant counts a claimant's non-cancelled claims.
func (r *GormClaimRepository) CountBySpecialAndClaimant(specialID uint, claimantKey string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SpecialClaim{}).
		Where("special_id = ? AND claimant_key = ? AND status != ?",
			specialID, claimantKey, constants.ClaimStatusCancelled).
		Count(&count).Error
	return count, err
}

// CountBySpecialAndClaimantOnDay counts a claimant's non-cancelled claims on
// one UTC calendar day.
func (r *GormClaimRepository) CountBySpecialAndClaimantOnDay(specialID uint, claimantKey, day string) (int64, error) {
	var count int64
	err := r.db.Model(&models.SpecialClaim{}).
		Where("special_id = ? AND claimant_key = ? AND claim_day = ? AND status != ?",
			specialID, claimantKey, day, constants.ClaimStatusCancelled).
		Count(&count).Error
	return count, err
}

// MarkRedeemed transitions a claim from claimed to redeemed as one
// conditional UPDATE. The returned row count is the success signal; a second
// redemption matches zero rows.
func (r *GormClaimRepository) MarkRedeemed(specialID uint, id string, at time.Time) (int64, error) {
	result := r.db.Model(&models.SpecialClaim{}).
		Where("id = ? AND special_id = ? AND status = ?", id, specialID, constants.ClaimStatusClaimed).
		Updates(map[string]interface{}{
			"status":      constants.ClaimStatusRedeemed,
			"redeemed_at": at,
			"updated_at":  at,
		})
	return result.RowsAffected, result.Error
}

// Cancel transitions a claim from claimed to cancelled.
func (r *GormClaimRepository) Cancel(specialID uint, id string) (int64, error) {
	result := r.db.Model(&models.SpecialClaim{}).
		Where("id = ? AND special_id = ? AND status = ?", id, specialID, constants.ClaimStatusClaimed).
		Update("status", constants.ClaimStatusCancelled)
	return result.RowsAffected, result.Error
}

// ExpireOverdue marks open claims on lapsed specials as expired. Used by the
// periodic sweep; reads never depend on it since expiry is computed from the
// special's window.
func (r *GormClaimRepository) ExpireOverdue(now time.Time) (int64, error) {
	result := r.db.Model(&models.SpecialClaim{}).
		Where("status = ?", constants.ClaimStatusClaimed).
		Where("special_id IN (?)",
			r.db.Model(&models.Special{}).Select("id").Where("valid_until < ?", now),
		).
		Updates(map[string]interface{}{
			"status":     constants.ClaimStatusExpired,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

// List queries claims with filters and pagination.
func (r *GormClaimRepository) List(filter ClaimListFilter) ([]models.SpecialClaim, int64, error) {
	var claims []models.SpecialClaim
	query := r.db.Model(&models.SpecialClaim{})

	if filter.SpecialID > 0 {
		query = query.Where("special_id = ?", filter.SpecialID)
	}
	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if sid := strings.TrimSpace(filter.GuestSessionID); sid != "" {
		query = query.Where("guest_session_id = ?", sid)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("created_at desc").Find(&claims).Error; err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}
