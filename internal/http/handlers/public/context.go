package public

import (
	"strings"

	handlershared "github.com/jewgo-app/jewgo-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// optionalUserID returns the authenticated user without writing an error
// response when the request is anonymous.
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

// guestSessionHeader is the opaque guest identity carried when the caller
// has no account.
const guestSessionHeader = "X-Guest-Session"

// guestSessionFromRequest resolves the guest token. The header carries the
// server-issued token, so it wins over any value echoed in the body.
func guestSessionFromRequest(c *gin.Context, bodyValue string) string {
	if v := strings.TrimSpace(c.GetHeader(guestSessionHeader)); v != "" {
		return v
	}
	return strings.TrimSpace(bodyValue)
}
