package public

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/authz"
	handlershared "github.com/jewgo-app/jewgo-api/internal/http/handlers/shared"
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ClaimView is the claim payload returned to the claimant.
type ClaimView struct {
	ID         string     `json:"id"`
	SpecialID  uint       `json:"special_id"`
	Status     string     `json:"status"`
	RedeemCode string     `json:"redeem_code"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListActiveSpecials lists specials active within the requested window.
func (h *Handler) ListActiveSpecials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	specials, total, err := h.SpecialService.ListActive(c.Request.Context(), service.ListActiveInput{
		WindowKind: c.Query("window"),
		From:       c.Query("from"),
		Until:      c.Query("until"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		respondWithMappedError(c, err, specialsListErrorRules, response.CodeInternal, "failed to list specials")
		return
	}

	totalPage := (total + int64(pageSize) - 1) / int64(pageSize)
	response.SuccessWithPage(c, specials, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetSpecial returns a single special.
func (h *Handler) GetSpecial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	special, err := h.SpecialService.GetSpecial(id)
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "failed to fetch special")
		return
	}
	response.Success(c, special)
}

// ClaimSpecialRequest optionally carries the guest identity.
type ClaimSpecialRequest struct {
	GuestSessionID string `json:"guest_session_id"`
}

// ClaimSpecial claims a special for the authenticated user or a guest session.
func (h *Handler) ClaimSpecial(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ClaimSpecialRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
	}

	userID := optionalUserID(c)
	guestToken := ""
	if userID == 0 {
		guestToken = guestSessionFromRequest(c, req.GuestSessionID)
		if guestToken != "" {
			if _, err := h.GuestSessionService.Resolve(guestToken); err != nil {
				respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "failed to resolve guest session")
				return
			}
		}
	}

	claim, err := h.SpecialService.Claim(service.ClaimInput{
		SpecialID:      id,
		UserID:         userID,
		GuestSessionID: guestToken,
	})
	if err != nil {
		respondWithMappedError(c, err, claimErrorRules, response.CodeInternal, "failed to claim special")
		return
	}

	response.Created(c, ClaimView{
		ID:         claim.ID,
		SpecialID:  claim.SpecialID,
		Status:     claim.Status,
		RedeemCode: claim.RedeemCode,
		CreatedAt:  claim.CreatedAt,
	})
}

// RedeemClaimRequest carries the claim being redeemed by staff.
type RedeemClaimRequest struct {
	ClaimID    string `json:"claim_id" binding:"required"`
	RedeemCode string `json:"redeem_code"`
}

// RedeemClaim finalizes a claim. Staff only; the actor must belong to the
// special's restaurant unless they are a super admin.
func (h *Handler) RedeemClaim(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RedeemClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	special, err := h.SpecialService.GetSpecial(id)
	if err != nil {
		respondWithMappedError(c, err, redeemErrorRules, response.CodeInternal, "failed to fetch special")
		return
	}

	scope := staffScopeFromContext(c)
	if !scope.CanRedeemSpecial(special.RestaurantID) {
		respondWithMappedError(c, service.ErrRedeemNotAuthorized, redeemErrorRules, response.CodeInternal, "not authorized")
		return
	}

	claim, err := h.SpecialService.Redeem(service.RedeemInput{
		SpecialID:  id,
		ClaimID:    req.ClaimID,
		RedeemCode: req.RedeemCode,
	})
	if err != nil {
		respondWithMappedError(c, err, redeemErrorRules, response.CodeInternal, "failed to redeem claim")
		return
	}

	response.Success(c, ClaimView{
		ID:         claim.ID,
		SpecialID:  claim.SpecialID,
		Status:     claim.Status,
		RedeemCode: claim.RedeemCode,
		RedeemedAt: claim.RedeemedAt,
		CreatedAt:  claim.CreatedAt,
	})
}

// TrackEventRequest is one engagement event.
type TrackEventRequest struct {
	EventType      string `json:"event_type" binding:"required"`
	GuestSessionID string `json:"guest_session_id"`
}

// TrackEvent records a fire-and-forget engagement event.
func (h *Handler) TrackEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	err := h.SpecialService.Track(service.TrackInput{
		SpecialID:  id,
		EventType:  req.EventType,
		UserID:     optionalUserID(c),
		GuestToken: guestSessionFromRequest(c, req.GuestSessionID),
	})
	if err != nil {
		respondWithMappedError(c, err, trackErrorRules, response.CodeInternal, "failed to track event")
		return
	}
	response.Accepted(c, nil)
}

// ClaimQRCode streams the claim's redeem code as a PNG.
func (h *Handler) ClaimQRCode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	claimID := strings.TrimSpace(c.Param("claim_id"))
	if claimID == "" {
		respondError(c, response.CodeBadRequest, "claim id required", nil)
		return
	}

	png, err := h.SpecialService.ClaimQRCode(id, claimID)
	if err != nil {
		respondWithMappedError(c, err, claimQRErrorRules, response.CodeInternal, "failed to render qr code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid id", nil)
		return 0, false
	}
	return uint(id), true
}

func staffScopeFromContext(c *gin.Context) authz.StaffScope {
	scope := authz.StaffScope{}
	if v, ok := c.Get("admin_id"); ok {
		if id, ok := v.(uint); ok {
			scope.AdminID = id
		}
	}
	if v, ok := c.Get("admin_is_super"); ok {
		if isSuper, ok := v.(bool); ok {
			scope.IsSuper = isSuper
		}
	}
	if v, ok := c.Get("admin_restaurant_id"); ok {
		if rid, ok := v.(*uint); ok {
			scope.RestaurantID = rid
		}
	}
	return scope
}
