package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// ListingRepository is the marketplace listing data access interface.
type ListingRepository interface {
	GetByID(id uint) (*models.Listing, error)
	Create(listing *models.Listing) error
	Update(listing *models.Listing) error
	Delete(id uint) error
	UpdateStatus(id uint, from, to string) (int64, error)
	List(filter ListingListFilter) ([]models.Listing, int64, error)
	WithTx(tx *gorm.DB) *GormListingRepository
}

// GormListingRepository is the GORM implementation.
type GormListingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a marketplace listing repository.
func NewListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormListingRepository) WithTx(tx *gorm.DB) *GormListingRepository {
	if tx == nil {
		return r
	}
	return &GormListingRepository{db: tx}
}

// GetByID fetches a listing by id.
func (r *GormListingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &listing, nil
}

// Create inserts a listing.
func (r *GormListingRepository) Create(listing *models.Listing) error {
	return r.db.Create(listing).Error
}

// Update saves a listing.
func (r *GormListingRepository) Update(listing *models.Listing) error {
	return r.db.Save(listing).Error
}

// Delete soft-deletes a listing.
func (r *GormListingRepository) Delete(id uint) error {
	return r.db.Delete(&models.Listing{}, id).Error
}

// UpdateStatus moves a listing between states as a conditional update.
func (r *GormListingRepository) UpdateStatus(id uint, from, to string) (int64, error) {
	result := r.db.Model(&models.Listing{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

// List queries listings with filters and pagination.
func (r *GormListingRepository) List(filter ListingListFilter) ([]models.Listing, int64, error) {
	var listings []models.Listing
	query := r.db.Model(&models.Listing{})

	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		query = query.Where("(title LIKE ? OR description LIKE ?)", like, like)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyActive {
		query = query.Where("status = ?", constants.ListingStatusActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("id desc").Find(&listings).Error; err != nil {
		return nil, 0, err
	}
	return listings, total, nil
}
