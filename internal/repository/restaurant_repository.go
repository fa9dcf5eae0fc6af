package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// RestaurantRepository is the restaurant data access interface.
type RestaurantRepository interface {
	GetByID(id uint) (*models.Restaurant, error)
	GetBySlug(slug string) (*models.Restaurant, error)
	Create(restaurant *models.Restaurant) error
	Update(restaurant *models.Restaurant) error
	Delete(id uint) error
	List(filter RestaurantListFilter) ([]models.Restaurant, int64, error)
	WithTx(tx *gorm.DB) *GormRestaurantRepository
}

// GormRestaurantRepository is the GORM implementation.
type GormRestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a restaurant repository.
func NewRestaurantRepository(db *gorm.DB) *GormRestaurantRepository {
	return &GormRestaurantRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormRestaurantRepository) WithTx(tx *gorm.DB) *GormRestaurantRepository {
	if tx == nil {
		return r
	}
	return &GormRestaurantRepository{db: tx}
}

// GetByID fetches a restaurant by id.
func (r *GormRestaurantRepository) GetByID(id uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// GetBySlug fetches a restaurant by slug.
func (r *GormRestaurantRepository) GetBySlug(slug string) (*models.Restaurant, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, nil
	}
	var restaurant models.Restaurant
	if err := r.db.Where("slug = ?", slug).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

// Create inserts a restaurant.
func (r *GormRestaurantRepository) Create(restaurant *models.Restaurant) error {
	return r.db.Create(restaurant).Error
}

// Update saves a restaurant.
func (r *GormRestaurantRepository) Update(restaurant *models.Restaurant) error {
	return r.db.Save(restaurant).Error
}

// Delete soft-deletes a restaurant.
func (r *GormRestaurantRepository) Delete(id uint) error {
	return r.db.Delete(&models.Restaurant{}, id).Error
}

// List queries restaurants with filters and pagination.
func (r *GormRestaurantRepository) List(filter RestaurantListFilter) ([]models.Restaurant, int64, error) {
	var restaurants []models.Restaurant
	query := r.db.Model(&models.Restaurant{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", search)
		query = query.Where("(name LIKE ? OR description LIKE ? OR address LIKE ?)", like, like, like)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.KosherCategory != "" {
		query = query.Where("kosher_category = ?", filter.KosherCategory)
	}
	if filter.CertifyingBody != "" {
		query = query.Where("certifying_body = ?", filter.CertifyingBody)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.OnlyApproved {
		query = query.Where("status = ?", constants.RestaurantStatusApproved)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("name asc").Find(&restaurants).Error; err != nil {
		return nil, 0, err
	}
	return restaurants, total, nil
}
