package admin

import (
	"strconv"

	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

var restaurantAdminErrorRules = []mappedHandlerError{
	{target: service.ErrRestaurantNotFound, code: response.CodeNotFound, msg: "restaurant not found"},
	{target: service.ErrRestaurantInvalid, code: response.CodeBadRequest, msg: "restaurant invalid"},
}

// GetAdminRestaurants lists the directory including non-approved entries.
func (h *Handler) GetAdminRestaurants(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	restaurants, total, err := h.RestaurantService.ListRestaurants(service.RestaurantListInput{
		Page:           page,
		PageSize:       pageSize,
		Search:         c.Query("search"),
		City:           c.Query("city"),
		State:          c.Query("state"),
		KosherCategory: c.Query("kosher_category"),
		CertifyingBody: c.Query("certifying_body"),
		Status:         c.Query("status"),
		IncludeAll:     true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "failed to list restaurants", err)
		return
	}

	response.SuccessWithPage(c, restaurants, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetAdminRestaurant returns one restaurant by id.
func (h *Handler) GetAdminRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	restaurant, err := h.RestaurantService.GetRestaurant(id)
	if err != nil {
		respondWithMappedError(c, err, restaurantAdminErrorRules, response.CodeInternal, "failed to fetch restaurant")
		return
	}
	response.Success(c, restaurant)
}

// CreateRestaurantRequest carries a new directory entry.
type CreateRestaurantRequest struct {
	Name           string  `json:"name" binding:"required"`
	Description    string  `json:"description"`
	Address        string  `json:"address" binding:"required"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	ZipCode        string  `json:"zip_code"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Phone          string  `json:"phone"`
	Website        string  `json:"website"`
	KosherCategory string  `json:"kosher_category"`
	CertifyingBody string  `json:"certifying_body"`
	HoursJSON      string  `json:"hours_json"`
	ImageURL       string  `json:"image_url"`
	OwnerUserID    *uint   `json:"owner_user_id"`
}

// CreateAdminRestaurant creates a restaurant.
func (h *Handler) CreateAdminRestaurant(c *gin.Context) {
	var req CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	restaurant, err := h.RestaurantService.CreateRestaurant(service.RestaurantCreateInput{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Phone:          req.Phone,
		Website:        req.Website,
		KosherCategory: req.KosherCategory,
		CertifyingBody: req.CertifyingBody,
		HoursJSON:      req.HoursJSON,
		ImageURL:       req.ImageURL,
		OwnerUserID:    req.OwnerUserID,
	})
	if err != nil {
		respondWithMappedError(c, err, restaurantAdminErrorRules, response.CodeInternal, "failed to create restaurant")
		return
	}
	response.Created(c, restaurant)
}

// UpdateRestaurantRequest carries partial restaurant changes.
type UpdateRestaurantRequest struct {
	Name           *string  `json:"name"`
	Description    *string  `json:"description"`
	Address        *string  `json:"address"`
	City           *string  `json:"city"`
	State          *string  `json:"state"`
	ZipCode        *string  `json:"zip_code"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
	KosherCategory *string  `json:"kosher_category"`
	CertifyingBody *string  `json:"certifying_body"`
	HoursJSON      *string  `json:"hours_json"`
	ImageURL       *string  `json:"image_url"`
	Status         *string  `json:"status"`
}

// UpdateAdminRestaurant updates a restaurant.
func (h *Handler) UpdateAdminRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	restaurant, err := h.RestaurantService.UpdateRestaurant(id, service.RestaurantUpdateInput{
		Name:           req.Name,
		Description:    req.Description,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		ZipCode:        req.ZipCode,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Phone:          req.Phone,
		Website:        req.Website,
		KosherCategory: req.KosherCategory,
		CertifyingBody: req.CertifyingBody,
		HoursJSON:      req.HoursJSON,
		ImageURL:       req.ImageURL,
		Status:         req.Status,
	})
	if err != nil {
		respondWithMappedError(c, err, restaurantAdminErrorRules, response.CodeInternal, "failed to update restaurant")
		return
	}
	response.Success(c, restaurant)
}

// ApproveAdminRestaurant publishes a pending entry to the public directory.
func (h *Handler) ApproveAdminRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	status := constants.RestaurantStatusApproved
	restaurant, err := h.RestaurantService.UpdateRestaurant(id, service.RestaurantUpdateInput{Status: &status})
	if err != nil {
		respondWithMappedError(c, err, restaurantAdminErrorRules, response.CodeInternal, "failed to approve restaurant")
		return
	}
	response.Success(c, restaurant)
}

// DeleteAdminRestaurant removes a restaurant.
func (h *Handler) DeleteAdminRestaurant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.RestaurantService.DeleteRestaurant(id); err != nil {
		respondWithMappedError(c, err, restaurantAdminErrorRules, response.CodeInternal, "failed to delete restaurant")
		return
	}
	response.Success(c, nil)
}
