package admin

import (
	"strconv"

	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

var listingAdminErrorRules = []mappedHandlerError{
	{target: service.ErrListingNotFound, code: response.CodeNotFound, msg: "listing not found"},
	{target: service.ErrListingStateInvalid, code: response.CodeConflict, msg: "listing state does not allow this"},
}

// GetAdminListings lists classifieds across every status for moderation.
func (h *Handler) GetAdminListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	listings, total, err := h.ListingService.ListListings(service.ListingListInput{
		Page:       page,
		PageSize:   pageSize,
		Category:   c.Query("category"),
		City:       c.Query("city"),
		Search:     c.Query("search"),
		Status:     c.Query("status"),
		IncludeAll: true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list listings", err)
		return
	}

	response.SuccessWithPage(c, listings, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ModerateListingRequest approves or rejects a pending classified.
type ModerateListingRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ModerateAdminListing moves a pending listing to active or removed.
func (h *Handler) ModerateAdminListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ModerateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	listing, err := h.ListingService.Moderate(id, *req.Approve)
	if err != nil {
		respondWithMappedError(c, err, listingAdminErrorRules, response.CodeInternal, "failed to moderate listing")
		return
	}
	response.Success(c, listing)
}
