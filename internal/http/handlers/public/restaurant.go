package public

import (
	"strconv"
	"strings"

	handlershared "github.com/jewgo-app/jewgo-api/internal/http/handlers/shared"
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

var restaurantReadErrorRules = []mappedHandlerError{
	{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, msg: "restaurant not found"},
	{target: service.ErrRestaurantInvalid, code: response.CodeBadRequest, msg: "restaurant invalid"},
}

// ListRestaurants lists approved restaurants with directory filters.
func (h *Handler) ListRestaurants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	restaurants, total, err := h.RestaurantService.ListRestaurants(service.RestaurantListInput{
		Page:           page,
		PageSize:       pageSize,
		Search:         c.Query("search"),
		City:           c.Query("city"),
		State:          c.Query("state"),
		KosherCategory: c.Query("kosher_category"),
		CertifyingBody: c.Query("certifying_body"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list restaurants", err)
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, restaurants, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetRestaurantBySlug returns one restaurant by its directory slug.
func (h *Handler) GetRestaurantBySlug(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		respondError(c, response.CodeBadRequest, "slug required", nil)
		return
	}
	restaurant, err := h.RestaurantService.GetRestaurantBySlug(slug)
	if err != nil {
		respondWithMappedError(c, err, restaurantReadErrorRules, response.CodeInternal, "failed to fetch restaurant")
		return
	}
	response.Success(c, restaurant)
}
