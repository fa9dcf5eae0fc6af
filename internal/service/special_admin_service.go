package service

import (
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/queue"
	"github.com/jewgo-app/jewgo-api/internal/repository"
)

// SpecialAdminService manages specials on behalf of venue owners and admins.
type SpecialAdminService struct {
	specialRepo repository.SpecialRepository
	claimRepo   repository.ClaimRepository
	eventRepo   repository.SpecialEventRepository
	restRepo    repository.RestaurantRepository
	queueClient *queue.Client
}

// NewSpecialAdminService creates the admin specials service.
func NewSpecialAdminService(
	specialRepo repository.SpecialRepository,
	claimRepo repository.ClaimRepository,
	eventRepo repository.SpecialEventRepository,
	restRepo repository.RestaurantRepository,
	queueClient *queue.Client,
) *SpecialAdminService {
	return &SpecialAdminService{
		specialRepo: specialRepo,
		claimRepo:   claimRepo,
		eventRepo:   eventRepo,
		restRepo:    restRepo,
		queueClient: queueClient,
	}
}

// SpecialCreateInput carries the fields of a new special.
type SpecialCreateInput struct {
	RestaurantID     uint
	Title            string
	Description      string
	DiscountKind     string
	DiscountValue    models.Money
	DiscountLabel    string
	ValidFrom        time.Time
	ValidUntil       time.Time
	MaxClaimsTotal   *int
	MaxClaimsPerUser int
	PerVisit         bool
	IsActive         *bool
	RequiresCode     bool
	Terms            string
	HeroImageURL     string
}

// SpecialUpdateInput carries partial updates; nil means leave unchanged.
type SpecialUpdateInput struct {
	Title            *string
	Description      *string
	DiscountKind     *string
	DiscountValue    *models.Money
	DiscountLabel    *string
	ValidFrom        *time.Time
	ValidUntil       *time.Time
	MaxClaimsTotal   *int
	ClearMaxClaims   bool
	MaxClaimsPerUser *int
	PerVisit         *bool
	IsActive         *bool
	RequiresCode     *bool
	Terms            *string
	HeroImageURL     *string
}

// SpecialListInput filters the admin specials listing.
type SpecialListInput struct {
	Page         int
	PageSize     int
	RestaurantID uint
	IsActive     *bool
	Search       string
}

// CreateSpecial validates and inserts a special.
func (s *SpecialAdminService) CreateSpecial(input SpecialCreateInput) (*models.Special, error) {
	if s == nil || s.specialRepo == nil {
		return nil, ErrSpecialCreateFailed
	}
	title := strings.TrimSpace(input.Title)
	if title == "" || input.RestaurantID == 0 {
		return nil, ErrSpecialInvalid
	}
	kind, err := normalizeDiscountKind(input.DiscountKind)
	if err != nil {
		return nil, err
	}
	if input.ValidFrom.IsZero() || input.ValidUntil.IsZero() || input.ValidUntil.Before(input.ValidFrom) {
		return nil, ErrSpecialInvalid
	}
	if input.MaxClaimsTotal != nil && *input.MaxClaimsTotal <= 0 {
		return nil, ErrSpecialInvalid
	}
	maxPerUser := input.MaxClaimsPerUser
	if maxPerUser < 0 {
		return nil, ErrSpecialInvalid
	}
	if maxPerUser == 0 {
		maxPerUser = 1
	}
	if s.restRepo != nil {
		restaurant, err := s.restRepo.GetByID(input.RestaurantID)
		if err != nil {
			return nil, ErrRestaurantFetchFailed
		}
		if restaurant == nil {
			return nil, ErrRestaurantNotFound
		}
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	now := time.Now().UTC()
	special := &models.Special{
		RestaurantID:     input.RestaurantID,
		Title:            title,
		Description:      strings.TrimSpace(input.Description),
		DiscountKind:     kind,
		DiscountValue:    input.DiscountValue,
		DiscountLabel:    strings.TrimSpace(input.DiscountLabel),
		ValidFrom:        input.ValidFrom.UTC(),
		ValidUntil:       input.ValidUntil.UTC(),
		MaxClaimsTotal:   input.MaxClaimsTotal,
		MaxClaimsPerUser: maxPerUser,
		PerVisit:         input.PerVisit,
		IsActive:         isActive,
		RequiresCode:     input.RequiresCode,
		Terms:            strings.TrimSpace(input.Terms),
		HeroImageURL:     strings.TrimSpace(input.HeroImageURL),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.specialRepo.Create(special); err != nil {
		return nil, ErrSpecialCreateFailed
	}
	s.requestAggregateRefresh("special_created")
	return special, nil
}

// UpdateSpecial applies a partial update to a special.
func (s *SpecialAdminService) UpdateSpecial(id uint, input SpecialUpdateInput) (*models.Special, error) {
	if s == nil || s.specialRepo == nil || id == 0 {
		return nil, ErrSpecialInvalid
	}
	special, err := s.specialRepo.GetByID(id)
	if err != nil {
		return nil, ErrSpecialFetchFailed
	}
	if special == nil {
		return nil, ErrSpecialNotFound
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrSpecialInvalid
		}
		special.Title = title
	}
	if input.Description != nil {
		special.Description = strings.TrimSpace(*input.Description)
	}
	if input.DiscountKind != nil {
		kind, err := normalizeDiscountKind(*input.DiscountKind)
		if err != nil {
			return nil, err
		}
		special.DiscountKind = kind
	}
	if input.DiscountValue != nil {
		special.DiscountValue = *input.DiscountValue
	}
	if input.DiscountLabel != nil {
		special.DiscountLabel = strings.TrimSpace(*input.DiscountLabel)
	}
	if input.ValidFrom != nil {
		special.ValidFrom = input.ValidFrom.UTC()
	}
	if input.ValidUntil != nil {
		special.ValidUntil = input.ValidUntil.UTC()
	}
	if special.ValidUntil.Before(special.ValidFrom) {
		return nil, ErrSpecialInvalid
	}
	if input.ClearMaxClaims {
		special.MaxClaimsTotal = nil
	} else if input.MaxClaimsTotal != nil {
		if *input.MaxClaimsTotal <= 0 {
			return nil, ErrSpecialInvalid
		}
		special.MaxClaimsTotal = input.MaxClaimsTotal
	}
	if input.MaxClaimsPerUser != nil {
		if *input.MaxClaimsPerUser <= 0 {
			return nil, ErrSpecialInvalid
		}
		special.MaxClaimsPerUser = *input.MaxClaimsPerUser
	}
	if input.PerVisit != nil {
		special.PerVisit = *input.PerVisit
	}
	if input.IsActive != nil {
		special.IsActive = *input.IsActive
	}
	if input.RequiresCode != nil {
		special.RequiresCode = *input.RequiresCode
	}
	if input.Terms != nil {
		special.Terms = strings.TrimSpace(*input.Terms)
	}
	if input.HeroImageURL != nil {
		special.HeroImageURL = strings.TrimSpace(*input.HeroImageURL)
	}

	special.UpdatedAt = time.Now().UTC()
	if err := s.specialRepo.Update(special); err != nil {
		return nil, ErrSpecialUpdateFailed
	}
	s.requestAggregateRefresh("special_updated")
	return special, nil
}

// DeleteSpecial soft-deletes a special. Existing claims survive for audit.
func (s *SpecialAdminService) DeleteSpecial(id uint) error {
	if s == nil || s.specialRepo == nil || id == 0 {
		return ErrSpecialInvalid
	}
	special, err := s.specialRepo.GetByID(id)
	if err != nil {
		return ErrSpecialFetchFailed
	}
	if special == nil {
		return ErrSpecialNotFound
	}
	if err := s.specialRepo.Delete(id); err != nil {
		return ErrSpecialDeleteFailed
	}
	s.requestAggregateRefresh("special_deleted")
	return nil
}

// ListSpecials queries specials for the back office.
func (s *SpecialAdminService) ListSpecials(input SpecialListInput) ([]models.Special, int64, error) {
	if s == nil || s.specialRepo == nil {
		return nil, 0, ErrSpecialFetchFailed
	}
	specials, total, err := s.specialRepo.List(repository.SpecialListFilter{
		Page:         input.Page,
		PageSize:     input.PageSize,
		RestaurantID: input.RestaurantID,
		IsActive:     input.IsActive,
		Search:       strings.TrimSpace(input.Search),
	})
	if err != nil {
		return nil, 0, ErrSpecialFetchFailed
	}
	return specials, total, nil
}

// ListClaims queries a special's claims for the back office.
func (s *SpecialAdminService) ListClaims(specialID uint, page, pageSize int, status string) ([]models.SpecialClaim, int64, error) {
	if s == nil || s.claimRepo == nil || specialID == 0 {
		return nil, 0, ErrClaimFetchFailed
	}
	claims, total, err := s.claimRepo.List(repository.ClaimListFilter{
		Page:      page,
		PageSize:  pageSize,
		SpecialID: specialID,
		Status:    strings.TrimSpace(strings.ToLower(status)),
	})
	if err != nil {
		return nil, 0, ErrClaimFetchFailed
	}
	return claims, total, nil
}

// CancelClaim voids an open claim. Cancelled claims stop counting against
// every cap.
func (s *SpecialAdminService) CancelClaim(specialID uint, claimID string) error {
	if s == nil || s.claimRepo == nil || specialID == 0 {
		return ErrClaimNotFound
	}
	claim, err := s.claimRepo.GetBySpecialAndID(specialID, strings.TrimSpace(claimID))
	if err != nil {
		return ErrClaimFetchFailed
	}
	if claim == nil {
		return ErrClaimNotFound
	}
	rows, err := s.claimRepo.Cancel(specialID, claim.ID)
	if err != nil {
		return ErrClaimFetchFailed
	}
	if rows == 0 {
		return ErrClaimNotRedeemable
	}
	logger.Infow("claim_cancelled", "special_id", specialID, "claim_id", claim.ID)
	return nil
}

// SpecialStats aggregates engagement counts and claim totals for one special.
func (s *SpecialAdminService) SpecialStats(specialID uint) (map[string]int64, error) {
	if s == nil || s.eventRepo == nil || s.claimRepo == nil || specialID == 0 {
		return nil, ErrSpecialFetchFailed
	}
	stats, err := s.eventRepo.CountBySpecialAndType(specialID)
	if err != nil {
		return nil, ErrSpecialFetchFailed
	}
	claims, err := s.claimRepo.CountBySpecial(specialID)
	if err != nil {
		return nil, ErrSpecialFetchFailed
	}
	stats["claims"] = claims
	return stats, nil
}

func (s *SpecialAdminService) requestAggregateRefresh(reason string) {
	if s == nil || !s.queueClient.Enabled() {
		return
	}
	if err := s.queueClient.EnqueueActiveSpecialRefresh(queue.ActiveSpecialRefreshPayload{Reason: reason}); err != nil {
		logger.Warnw("aggregate_refresh_enqueue_failed", "reason", reason, "error", err)
	}
}

func normalizeDiscountKind(raw string) (string, error) {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case constants.DiscountKindPercentage:
		return constants.DiscountKindPercentage, nil
	case constants.DiscountKindFixedAmount:
		return constants.DiscountKindFixedAmount, nil
	case constants.DiscountKindOther:
		return constants.DiscountKindOther, nil
	default:
		return "", ErrSpecialInvalid
	}
}
