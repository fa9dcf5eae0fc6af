package public

import (
	"github.com/jewgo-app/jewgo-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateGuestSession issues an opaque guest identity for claims.
func (h *Handler) CreateGuestSession(c *gin.Context) {
	session, err := h.GuestSessionService.Issue(c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		respondError(c, response.CodeInternal, "failed to issue guest session", err)
		return
	}
	response.Created(c, session)
}
