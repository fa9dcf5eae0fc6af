package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

var specialAdminErrorRules = []mappedHandlerError{
	{target: service.ErrSpecialNotFound, code: response.CodeNotFound, msg: "special not found"},
	{target: service.ErrSpecialInvalid, code: response.CodeBadRequest, msg: "special invalid"},
	{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, msg: "restaurant not found"},
	{target: service.ErrTimeWindowInvalid, code: response.CodeBadRequest, msg: "validity window invalid"},
	{target: service.ErrClaimNotFound, code: response.CodeNotFound, msg: "claim not found"},
	{target: service.ErrClaimNotRedeemable, code: response.CodeConflict, msg: "claim state does not allow this"},
}

// GetAdminSpecials lists specials for the back office.
func (h *Handler) GetAdminSpecials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	input := service.SpecialListInput{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	}
	if raw := strings.TrimSpace(c.Query("restaurant_id")); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
			input.RestaurantID = uint(id)
		}
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			input.IsActive = &active
		}
	}

	specials, total, err := h.SpecialAdminService.ListSpecials(input)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list specials", err)
		return
	}

	response.SuccessWithPage(c, specials, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAdminSpecial returns one special.
func (h *Handler) GetAdminSpecial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	special, err := h.SpecialService.GetSpecial(id)
	if err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to fetch special")
		return
	}
	response.Success(c, special)
}

// CreateSpecialRequest carries a new special.
type CreateSpecialRequest struct {
	RestaurantID     uint         `json:"restaurant_id" binding:"required"`
	Title            string       `json:"title" binding:"required"`
	Description      string       `json:"description"`
	DiscountKind     string       `json:"discount_kind"`
	DiscountValue    models.Money `json:"discount_value"`
	DiscountLabel    string       `json:"discount_label"`
	ValidFrom        time.Time    `json:"valid_from" binding:"required"`
	ValidUntil       time.Time    `json:"valid_until" binding:"required"`
	MaxClaimsTotal   *int         `json:"max_claims_total"`
	MaxClaimsPerUser int          `json:"max_claims_per_user"`
	PerVisit         bool         `json:"per_visit"`
	IsActive         *bool        `json:"is_active"`
	RequiresCode     bool         `json:"requires_code"`
	Terms            string       `json:"terms"`
	HeroImageURL     string       `json:"hero_image_url"`
}

// CreateAdminSpecial creates a special.
func (h *Handler) CreateAdminSpecial(c *gin.Context) {
	var req CreateSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	special, err := h.SpecialAdminService.CreateSpecial(service.SpecialCreateInput{
		RestaurantID:     req.RestaurantID,
		Title:            req.Title,
		Description:      req.Description,
		DiscountKind:     req.DiscountKind,
		DiscountValue:    req.DiscountValue,
		DiscountLabel:    req.DiscountLabel,
		ValidFrom:        req.ValidFrom,
		ValidUntil:       req.ValidUntil,
		MaxClaimsTotal:   req.MaxClaimsTotal,
		MaxClaimsPerUser: req.MaxClaimsPerUser,
		PerVisit:         req.PerVisit,
		IsActive:         req.IsActive,
		RequiresCode:     req.RequiresCode,
		Terms:            req.Terms,
		HeroImageURL:     req.HeroImageURL,
	})
	if err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to create special")
		return
	}
	response.Created(c, special)
}

// UpdateSpecialRequest carries partial special changes.
type UpdateSpecialRequest struct {
	Title            *string       `json:"title"`
	Description      *string       `json:"description"`
	DiscountKind     *string       `json:"discount_kind"`
	DiscountValue    *models.Money `json:"discount_value"`
	DiscountLabel    *string       `json:"discount_label"`
	ValidFrom        *time.Time    `json:"valid_from"`
	ValidUntil       *time.Time    `json:"valid_until"`
	MaxClaimsTotal   *int          `json:"max_claims_total"`
	ClearMaxClaims   bool          `json:"clear_max_claims"`
	MaxClaimsPerUser *int          `json:"max_claims_per_user"`
	PerVisit         *bool         `json:"per_visit"`
	IsActive         *bool         `json:"is_active"`
	RequiresCode     *bool         `json:"requires_code"`
	Terms            *string       `json:"terms"`
	HeroImageURL     *string       `json:"hero_image_url"`
}

// UpdateAdminSpecial updates a special.
func (h *Handler) UpdateAdminSpecial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	special, err := h.SpecialAdminService.UpdateSpecial(id, service.SpecialUpdateInput{
		Title:            req.Title,
		Description:      req.Description,
		DiscountKind:     req.DiscountKind,
		DiscountValue:    req.DiscountValue,
		DiscountLabel:    req.DiscountLabel,
		ValidFrom:        req.ValidFrom,
		ValidUntil:       req.ValidUntil,
		MaxClaimsTotal:   req.MaxClaimsTotal,
		ClearMaxClaims:   req.ClearMaxClaims,
		MaxClaimsPerUser: req.MaxClaimsPerUser,
		PerVisit:         req.PerVisit,
		IsActive:         req.IsActive,
		RequiresCode:     req.RequiresCode,
		Terms:            req.Terms,
		HeroImageURL:     req.HeroImageURL,
	})
	if err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to update special")
		return
	}
	response.Success(c, special)
}

// DeleteAdminSpecial removes a special.
func (h *Handler) DeleteAdminSpecial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.SpecialAdminService.DeleteSpecial(id); err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to delete special")
		return
	}
	response.Success(c, nil)
}

// GetAdminSpecialClaims lists a special's claims.
func (h *Handler) GetAdminSpecialClaims(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	claims, total, err := h.SpecialAdminService.ListClaims(id, page, pageSize, c.Query("status"))
	if err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to list claims")
		return
	}

	response.SuccessWithPage(c, claims, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// CancelAdminClaim voids an open claim, freeing its per-visit slot.
func (h *Handler) CancelAdminClaim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	claimID := strings.TrimSpace(c.Param("claim_id"))
	if claimID == "" {
		respondError(c, response.CodeBadRequest, "claim id required", nil)
		return
	}
	if err := h.SpecialAdminService.CancelClaim(id, claimID); err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to cancel claim")
		return
	}
	response.Success(c, nil)
}

// GetAdminSpecialStats reports claim and engagement counts.
func (h *Handler) GetAdminSpecialStats(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	stats, err := h.SpecialAdminService.SpecialStats(id)
	if err != nil {
		respondWithMappedError(c, err, specialAdminErrorRules, response.CodeInternal, "failed to fetch stats")
		return
	}
	response.Success(c, stats)
}
