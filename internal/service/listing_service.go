package service

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ListingService manages marketplace classifieds.
type ListingService struct {
	listingRepo repository.ListingRepository
}

// NewListingService creates the marketplace service.
func NewListingService(listingRepo repository.ListingRepository) *ListingService {
	return &ListingService{listingRepo: listingRepo}
}

// ListingCreateInput carries the fields of a new classified.
type ListingCreateInput struct {
	SellerID    uint
	Title       string
	Description string
	Category    string
	Price       models.Money
	City        string
	ImageURLs   []string
}

// ListingUpdateInput carries partial updates; nil means leave unchanged.
type ListingUpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Price       *models.Money
	City        *string
	ImageURLs   []string
}

// ListingListInput filters marketplace listings.
type ListingListInput struct {
	Page       int
	PageSize   int
	SellerID   uint
	Category   string
	City       string
	Search     string
	Status     string
	IncludeAll bool // moderation surface sees every status
}

// GetListing fetches a classified by id.
func (s *ListingService) GetListing(id uint) (*models.Listing, error) {
	if s == nil || s.listingRepo == nil || id == 0 {
		return nil, ErrListingInvalid
	}
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		return nil, ErrListingFetchFailed
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	return listing, nil
}

// ListListings queries classifieds. The public surface only sees active
// entries.
func (s *ListingService) ListListings(input ListingListInput) ([]models.Listing, int64, error) {
	if s == nil || s.listingRepo == nil {
		return nil, 0, ErrListingFetchFailed
	}
	filter := repository.ListingListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		SellerID:   input.SellerID,
		Category:   strings.TrimSpace(strings.ToLower(input.Category)),
		City:       strings.TrimSpace(input.City),
		Search:     strings.TrimSpace(input.Search),
		OnlyActive: !input.IncludeAll,
	}
	if input.IncludeAll {
		filter.Status = strings.TrimSpace(strings.ToLower(input.Status))
	}
	listings, total, err := s.listingRepo.List(filter)
	if err != nil {
		return nil, 0, ErrListingFetchFailed
	}
	return listings, total, nil
}

// CreateListing validates and inserts a classified. New listings wait in
// pending until moderation activates them.
func (s *ListingService) CreateListing(input ListingCreateInput) (*models.Listing, error) {
	if s == nil || s.listingRepo == nil {
		return nil, ErrListingCreateFailed
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || input.SellerID == 0 {
		return nil, ErrListingInvalid
	}
	if input.Price.Decimal.LessThan(decimal.Zero) {
		return nil, ErrListingInvalid
	}
	images, err := encodeImageURLs(input.ImageURLs)
	if err != nil {
		return nil, ErrListingInvalid
	}

	now := time.Now()
	listing := &models.Listing{
		SellerID:    input.SellerID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		Category:    strings.TrimSpace(strings.ToLower(input.Category)),
		Price:       input.Price,
		City:        strings.TrimSpace(input.City),
		ImageURLs:   images,
		Status:      constants.ListingStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.listingRepo.Create(listing); err != nil {
		return nil, ErrListingCreateFailed
	}
	logger.Infow("listing_created", "listing_id", listing.ID, "seller_id", listing.SellerID)
	return listing, nil
}

// UpdateListing applies a partial update on behalf of the seller.
func (s *ListingService) UpdateListing(id, sellerID uint, input ListingUpdateInput) (*models.Listing, error) {
	if s == nil || s.listingRepo == nil || id == 0 {
		return nil, ErrListingInvalid
	}
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		return nil, ErrListingFetchFailed
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}
	if sellerID != 0 && listing.SellerID != sellerID {
		return nil, ErrListingNotOwner
	}
	if listing.Status == constants.ListingStatusRemoved {
		return nil, ErrListingStateInvalid
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrListingInvalid
		}
		listing.Title = title
	}
	if input.Description != nil {
		listing.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		listing.Category = strings.TrimSpace(strings.ToLower(*input.Category))
	}
	if input.Price != nil {
		if input.Price.Decimal.LessThan(decimal.Zero) {
			return nil, ErrListingInvalid
		}
		listing.Price = *input.Price
	}
	if input.City != nil {
		listing.City = strings.TrimSpace(*input.City)
	}
	if input.ImageURLs != nil {
		images, err := encodeImageURLs(input.ImageURLs)
		if err != nil {
			return nil, ErrListingInvalid
		}
		listing.ImageURLs = images
	}

	listing.UpdatedAt = time.Now()
	if err := s.listingRepo.Update(listing); err != nil {
		return nil, ErrListingUpdateFailed
	}
	return listing, nil
}

// MarkSold transitions a listing from active to sold as a conditional update,
// so two buyers racing on the same listing resolve to one winner.
func (s *ListingService) MarkSold(id, sellerID uint) error {
	return s.transition(id, sellerID, constants.ListingStatusActive, constants.ListingStatusSold)
}

// Remove withdraws a listing. Sellers can remove pending or active listings.
func (s *ListingService) Remove(id, sellerID uint) error {
	if err := s.transition(id, sellerID, constants.ListingStatusActive, constants.ListingStatusRemoved); err != nil {
		if err == ErrListingStateInvalid {
			return s.transition(id, sellerID, constants.ListingStatusPending, constants.ListingStatusRemoved)
		}
		return err
	}
	return nil
}

// Moderate is the back-office transition: approve pending listings or take
// any listing down.
func (s *ListingService) Moderate(id uint, approve bool) (*models.Listing, error) {
	if s == nil || s.listingRepo == nil || id == 0 {
		return nil, ErrListingInvalid
	}
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		return nil, ErrListingFetchFailed
	}
	if listing == nil {
		return nil, ErrListingNotFound
	}

	if approve {
		rows, err := s.listingRepo.UpdateStatus(id, constants.ListingStatusPending, constants.ListingStatusActive)
		if err != nil {
			return nil, ErrListingUpdateFailed
		}
		if rows == 0 {
			return nil, ErrListingStateInvalid
		}
		listing.Status = constants.ListingStatusActive
	} else {
		listing.Status = constants.ListingStatusRemoved
		listing.UpdatedAt = time.Now()
		if err := s.listingRepo.Update(listing); err != nil {
			return nil, ErrListingUpdateFailed
		}
	}
	logger.Infow("listing_moderated", "listing_id", id, "approved", approve)
	return listing, nil
}

func (s *ListingService) transition(id, sellerID uint, from, to string) error {
	if s == nil || s.listingRepo == nil || id == 0 {
		return ErrListingInvalid
	}
	listing, err := s.listingRepo.GetByID(id)
	if err != nil {
		return ErrListingFetchFailed
	}
	if listing == nil {
		return ErrListingNotFound
	}
	if sellerID != 0 && listing.SellerID != sellerID {
		return ErrListingNotOwner
	}
	rows, err := s.listingRepo.UpdateStatus(id, from, to)
	if err != nil {
		return ErrListingUpdateFailed
	}
	if rows == 0 {
		return ErrListingStateInvalid
	}
	return nil
}

func encodeImageURLs(urls []string) (string, error) {
	cleaned := make([]string, 0, len(urls))
	for _, raw := range urls {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return "", nil
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}
