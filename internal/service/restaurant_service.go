package service

import (
	"regexp"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"
)

var slugCleanPattern = regexp.MustCompile(`[^a-z0-9]+`)

// RestaurantService manages the kosher restaurant directory.
type RestaurantService struct {
	restRepo repository.RestaurantRepository
}

// NewRestaurantService creates the restaurant service.
func NewRestaurantService(restRepo repository.RestaurantRepository) *RestaurantService {
	return &RestaurantService{restRepo: restRepo}
}

// RestaurantCreateInput carries the fields of a new directory entry.
type RestaurantCreateInput struct {
	Name           string
	Description    string
	Address        string
	City           string
	State          string
	ZipCode        string
	Latitude       float64
	Longitude      float64
	Phone          string
	Website        string
	KosherCategory string
	CertifyingBody string
	HoursJSON      string
	ImageURL       string
	OwnerUserID    *uint
}

// RestaurantUpdateInput carries partial updates; nil means leave unchanged.
type RestaurantUpdateInput struct {
	Name           *string
	Description    *string
	Address        *string
	City           *string
	State          *string
	ZipCode        *string
	Latitude       *float64
	Longitude      *float64
	Phone          *string
	Website        *string
	KosherCategory *string
	CertifyingBody *string
	HoursJSON      *string
	ImageURL       *string
	Status         *string
}

// RestaurantListInput filters the public directory listing.
type RestaurantListInput struct {
	Page           int
	PageSize       int
	Search         string
	City           string
	State          string
	KosherCategory string
	CertifyingBody string
	IncludeAll     bool // back office sees non-approved entries
	Status         string
}

// GetRestaurant fetches a restaurant by id.
func (s *RestaurantService) GetRestaurant(id uint) (*models.Restaurant, error) {
	if s == nil || s.restRepo == nil || id == 0 {
		return nil, ErrRestaurantInvalid
	}
	restaurant, err := s.restRepo.GetByID(id)
	if err != nil {
		return nil, ErrRestaurantFetchFailed
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// GetRestaurantBySlug fetches a restaurant by its URL slug.
func (s *RestaurantService) GetRestaurantBySlug(slug string) (*models.Restaurant, error) {
	if s == nil || s.restRepo == nil {
		return nil, ErrRestaurantInvalid
	}
	restaurant, err := s.restRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, ErrRestaurantFetchFailed
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// ListRestaurants queries the directory. The public surface only sees
// approved entries.
func (s *RestaurantService) ListRestaurants(input RestaurantListInput) ([]models.Restaurant, int64, error) {
	if s == nil || s.restRepo == nil {
		return nil, 0, ErrRestaurantFetchFailed
	}
	filter := repository.RestaurantListFilter{
		Page:           input.Page,
		PageSize:       input.PageSize,
		Search:         strings.TrimSpace(input.Search),
		City:           strings.TrimSpace(input.City),
		State:          strings.TrimSpace(input.State),
		KosherCategory: strings.TrimSpace(strings.ToLower(input.KosherCategory)),
		CertifyingBody: strings.TrimSpace(input.CertifyingBody),
		OnlyApproved:   !input.IncludeAll,
	}
	if input.IncludeAll {
		filter.Status = strings.TrimSpace(strings.ToLower(input.Status))
	}
	restaurants, total, err := s.restRepo.List(filter)
	if err != nil {
		return nil, 0, ErrRestaurantFetchFailed
	}
	return restaurants, total, nil
}

// CreateRestaurant validates and inserts a directory entry. New entries wait
// in pending_approval until a moderator approves them.
func (s *RestaurantService) CreateRestaurant(input RestaurantCreateInput) (*models.Restaurant, error) {
	if s == nil || s.restRepo == nil {
		return nil, ErrRestaurantCreateFailed
	}
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, ErrRestaurantInvalid
	}
	kosher, err := normalizeKosherCategory(input.KosherCategory)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	restaurant := &models.Restaurant{
		Name:           name,
		Slug:           buildSlug(name, now),
		Description:    strings.TrimSpace(input.Description),
		Address:        address,
		City:           strings.TrimSpace(input.City),
		State:          strings.TrimSpace(input.State),
		ZipCode:        strings.TrimSpace(input.ZipCode),
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Phone:          strings.TrimSpace(input.Phone),
		Website:        strings.TrimSpace(input.Website),
		KosherCategory: kosher,
		CertifyingBody: strings.TrimSpace(input.CertifyingBody),
		HoursJSON:      strings.TrimSpace(input.HoursJSON),
		ImageURL:       strings.TrimSpace(input.ImageURL),
		OwnerUserID:    input.OwnerUserID,
		Status:         constants.RestaurantStatusPendingApproval,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.restRepo.Create(restaurant); err != nil {
		if isUniqueViolation(err) {
			// slug collision, salt with the timestamp and retry once
			restaurant.Slug = buildSlug(name+"-"+now.Format("150405"), now)
			if err := s.restRepo.Create(restaurant); err != nil {
				return nil, ErrRestaurantCreateFailed
			}
		} else {
			return nil, ErrRestaurantCreateFailed
		}
	}
	logger.Infow("restaurant_created", "restaurant_id", restaurant.ID, "slug", restaurant.Slug)
	return restaurant, nil
}

// UpdateRestaurant applies a partial update.
func (s *RestaurantService) UpdateRestaurant(id uint, input RestaurantUpdateInput) (*models.Restaurant, error) {
	if s == nil || s.restRepo == nil || id == 0 {
		return nil, ErrRestaurantInvalid
	}
	restaurant, err := s.restRepo.GetByID(id)
	if err != nil {
		return nil, ErrRestaurantFetchFailed
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrRestaurantInvalid
		}
		restaurant.Name = name
	}
	if input.Description != nil {
		restaurant.Description = strings.TrimSpace(*input.Description)
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, ErrRestaurantInvalid
		}
		restaurant.Address = address
	}
	if input.City != nil {
		restaurant.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		restaurant.State = strings.TrimSpace(*input.State)
	}
	if input.ZipCode != nil {
		restaurant.ZipCode = strings.TrimSpace(*input.ZipCode)
	}
	if input.Latitude != nil {
		restaurant.Latitude = *input.Latitude
	}
	if input.Longitude != nil {
		restaurant.Longitude = *input.Longitude
	}
	if input.Phone != nil {
		restaurant.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Website != nil {
		restaurant.Website = strings.TrimSpace(*input.Website)
	}
	if input.KosherCategory != nil {
		kosher, err := normalizeKosherCategory(*input.KosherCategory)
		if err != nil {
			return nil, err
		}
		restaurant.KosherCategory = kosher
	}
	if input.CertifyingBody != nil {
		restaurant.CertifyingBody = strings.TrimSpace(*input.CertifyingBody)
	}
	if input.HoursJSON != nil {
		restaurant.HoursJSON = strings.TrimSpace(*input.HoursJSON)
	}
	if input.ImageURL != nil {
		restaurant.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Status != nil {
		status, err := normalizeRestaurantStatus(*input.Status)
		if err != nil {
			return nil, err
		}
		restaurant.Status = status
	}

	restaurant.UpdatedAt = time.Now()
	if err := s.restRepo.Update(restaurant); err != nil {
		return nil, ErrRestaurantUpdateFailed
	}
	return restaurant, nil
}

// DeleteRestaurant soft-deletes a directory entry.
func (s *RestaurantService) DeleteRestaurant(id uint) error {
	if s == nil || s.restRepo == nil || id == 0 {
		return ErrRestaurantInvalid
	}
	restaurant, err := s.restRepo.GetByID(id)
	if err != nil {
		return ErrRestaurantFetchFailed
	}
	if restaurant == nil {
		return ErrRestaurantNotFound
	}
	if err := s.restRepo.Delete(id); err != nil {
		return ErrRestaurantDeleteFailed
	}
	return nil
}

func normalizeKosherCategory(raw string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "", constants.KosherCategoryUnknown:
		return constants.KosherCategoryUnknown, nil
	case constants.KosherCategoryMeat:
		return constants.KosherCategoryMeat, nil
	case constants.KosherCategoryDairy:
		return constants.KosherCategoryDairy, nil
	case constants.KosherCategoryPareve:
		return constants.KosherCategoryPareve, nil
	default:
		return "", ErrRestaurantInvalid
	}
}

func normalizeRestaurantStatus(raw string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case constants.RestaurantStatusPendingApproval:
		return constants.RestaurantStatusPendingApproval, nil
	case constants.RestaurantStatusApproved:
		return constants.RestaurantStatusApproved, nil
	case constants.RestaurantStatusRejected:
		return constants.RestaurantStatusRejected, nil
	case constants.RestaurantStatusClosed:
		return constants.RestaurantStatusClosed, nil
	default:
		return "", ErrRestaurantInvalid
	}
}

func buildSlug(name string, now time.Time) string {
	slug := slugCleanPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "restaurant-" + now.Format("20060102150405")
	}
	return slug
}
