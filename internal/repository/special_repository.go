package repository

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SpecialRepository is the specials data access interface.
type SpecialRepository interface {
	GetByID(id uint) (*models.Special, error)
	GetByIDForUpdate(id uint) (*models.Special, error)
	Create(special *models.Special) error
	Update(special *models.Special) error
	Delete(id uint) error
	List(filter SpecialListFilter) ([]models.Special, int64, error)
	ListActiveAt(at time.Time, page, pageSize int) ([]models.Special, int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	RefreshActiveView() error
	WithTx(tx *gorm.DB) *GormSpecialRepository
}

// GormSpecialRepository is the GORM implementation.
type GormSpecialRepository struct {
	db *gorm.DB
}

// NewSpecialRepository creates a specials repository.
func NewSpecialRepository(db *gorm.DB) *GormSpecialRepository {
	return &GormSpecialRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSpecialRepository) WithTx(tx *gorm.DB) *GormSpecialRepository {
	if tx == nil {
		return r
	}
	return &GormSpecialRepository{db: tx}
}

// Transaction runs fn inside a database transaction.
func (r *GormSpecialRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if r == nil || r.db == nil {
		return errors.New("special repository not initialized")
	}
	return r.db.Transaction(fn)
}

// GetByID fetches a special by id.
func (r *GormSpecialRepository) GetByID(id uint) (*models.Special, error) {
	var special models.Special
	if err := r.db.First(&special, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &special, nil
}

// GetByIDForUpdate fetches a special holding a row lock. Claim admission runs
// under this lock so concurrent claims on the same special serialize.
func (r *GormSpecialRepository) GetByIDForUpdate(id uint) (*models.Special, error) {
	var special models.Special
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&special, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &special, nil
}

// Create inserts a special.
func (r *GormSpecialRepository) Create(special *models.Special) error {
	return r.db.Create(special).Error
}

// Update saves a special.
func (r *GormSpecialRepository) Update(special *models.Special) error {
	return r.db.Save(special).Error
}

// Delete soft-deletes a special.
func (r *GormSpecialRepository) Delete(id uint) error {
	return r.db.Delete(&models.Special{}, id).Error
}

// List queries specials with filters and pagination.
func (r *GormSpecialRepository) List(filter SpecialListFilter) ([]models.Special, int64, error) {
	var specials []models.Special
	query := r.db.Model(&models.Special{})

	if filter.RestaurantID > 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.PerVisit != nil {
		query = query.Where("per_visit = ?", *filter.PerVisit)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		query = query.Where("(title LIKE ? OR description LIKE ?)", like, like)
	}
	if filter.ActiveFrom != nil && filter.ActiveUntil != nil {
		query = query.Where("valid_from <= ? AND valid_until >= ?", *filter.ActiveUntil, *filter.ActiveFrom)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("valid_until asc, id desc").Find(&specials).Error; err != nil {
		return nil, 0, err
	}
	return specials, total, nil
}

// RefreshActiveView refreshes the active_specials materialized view. A no-op
// on sqlite, where reads fall through to the base table.
func (r *GormSpecialRepository) RefreshActiveView() error {
	if r.db.Dialector.Name() != "postgres" {
		return nil
	}
	return r.db.Exec("REFRESH MATERIALIZED VIEW CONCURRENTLY active_specials").Error
}

// ListActiveAt returns specials active at the given instant, both window
// bounds inclusive.
func (r *GormSpecialRepository) ListActiveAt(at time.Time, page, pageSize int) ([]models.Special, int64, error) {
	var specials []models.Special
	query := r.db.Model(&models.Special{}).
		Where("is_active = ?", true).
		Where("valid_from <= ? AND valid_until >= ?", at, at)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)
	if err := query.Order("valid_until asc, id desc").Find(&specials).Error; err != nil {
		return nil, 0, err
	}
	return specials, total, nil
}
