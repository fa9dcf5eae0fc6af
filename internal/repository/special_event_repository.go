package repository

import (
	"github.com/jewgo-app/jewgo-api/internal/models"

	"gorm.io/gorm"
)

// SpecialEventRepository is the engagement event data access interface.
type SpecialEventRepository interface {
	Create(event *models.SpecialEvent) error
	List(filter SpecialEventListFilter) ([]models.SpecialEvent, int64, error)
	CountBySpecialAndType(specialID uint) (map[string]int64, error)
}

// GormSpecialEventRepository is the GORM implementation.
type GormSpecialEventRepository struct {
	db *gorm.DB
}

// NewSpecialEventRepository creates an engagement event repository.
func NewSpecialEventRepository(db *gorm.DB) *GormSpecialEventRepository {
	return &GormSpecialEventRepository{db: db}
}

// Create inserts an event row.
func (r *GormSpecialEventRepository) Create(event *models.SpecialEvent) error {
	return r.db.Create(event).Error
}

// List returns events matching the filter, newest first.
func (r *GormSpecialEventRepository) List(filter SpecialEventListFilter) ([]models.SpecialEvent, int64, error) {
	var events []models.SpecialEvent
	var total int64

	query := r.db.Model(&models.SpecialEvent{})
	if filter.SpecialID > 0 {
		query = query.Where("special_id = ?", filter.SpecialID)
	}
	if filter.EventType != "" {
		query = query.Where("event_type = ?", filter.EventType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyPagination(query, filter.Page, filter.PageSize).
		Order("id desc").Find(&events).Error
	return events, total, err
}

// CountBySpecialAndType aggregates event counts per type for one special.
func (r *GormSpecialEventRepository) CountBySpecialAndType(specialID uint) (map[string]int64, error) {
	type row struct {
		EventType string
		Total     int64
	}
	var rows []row
	err := r.db.Model(&models.SpecialEvent{}).
		Select("event_type, count(*) as total").
		Where("special_id = ?", specialID).
		Group("event_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, item := range rows {
		counts[item.EventType] = item.Total
	}
	return counts, nil
}
