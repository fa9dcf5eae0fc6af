package public

import (
	"strconv"

	handlershared "github.com/jewgo-app/jewgo-api/internal/http/handlers/shared"
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListListings lists active marketplace classifieds.
func (h *Handler) ListListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	listings, total, err := h.ListingService.ListListings(service.ListingListInput{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		City:     c.Query("city"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list listings", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, listings, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetListing returns a single classified.
func (h *Handler) GetListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	listing, err := h.ListingService.GetListing(id)
	if err != nil {
		respondWithMappedError(c, err, listingWriteErrorRules, response.CodeInternal, "failed to fetch listing")
		return
	}
	response.Success(c, listing)
}

// CreateListingRequest carries a new classified.
type CreateListingRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	Category    string       `json:"category"`
	Price       models.Money `json:"price"`
	City        string       `json:"city"`
	ImageURLs   []string     `json:"image_urls"`
}

// CreateListing creates a classified for the authenticated seller.
func (h *Handler) CreateListing(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	listing, err := h.ListingService.CreateListing(service.ListingCreateInput{
		SellerID:    userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		City:        req.City,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondWithMappedError(c, err, listingWriteErrorRules, response.CodeInternal, "failed to create listing")
		return
	}
	response.Created(c, listing)
}

// UpdateListingRequest carries partial changes to a classified.
type UpdateListingRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Price       *models.Money `json:"price"`
	City        *string       `json:"city"`
	ImageURLs   []string      `json:"image_urls"`
}

// UpdateListing updates the seller's own classified.
func (h *Handler) UpdateListing(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	listing, err := h.ListingService.UpdateListing(id, userID, service.ListingUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		City:        req.City,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		respondWithMappedError(c, err, listingWriteErrorRules, response.CodeInternal, "failed to update listing")
		return
	}
	response.Success(c, listing)
}

// MarkListingSold marks the seller's own classified as sold.
func (h *Handler) MarkListingSold(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ListingService.MarkSold(id, userID); err != nil {
		respondWithMappedError(c, err, listingWriteErrorRules, response.CodeInternal, "failed to mark listing sold")
		return
	}
	response.Success(c, nil)
}

// RemoveListing withdraws the seller's own classified.
func (h *Handler) RemoveListing(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.ListingService.Remove(id, userID); err != nil {
		respondWithMappedError(c, err, listingWriteErrorRules, response.CodeInternal, "failed to remove listing")
		return
	}
	response.Success(c, nil)
}
