package public

import (
	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"
)

var oauthErrorRules = []mappedHandlerError{
	{target: service.ErrOAuthStateInvalid, code: response.CodeBadRequest, msg: "oauth state invalid"},
	{target: service.ErrOAuthFailed, code: response.CodeBadRequest, msg: "oauth sign-in failed"},
	{target: service.ErrUserDisabled, code: response.CodeUnauthorized, msg: "account disabled"},
}

// BeginOAuth redirects to the provider's consent screen.
func (h *Handler) BeginOAuth(c *gin.Context) {
	// If the provider session is already valid, skip the redirect round trip.
	if gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request); err == nil {
		user, token, expiresAt, signErr := h.OAuthService.CompleteSignIn(gothUser)
		if signErr != nil {
			respondWithMappedError(c, signErr, oauthErrorRules, response.CodeInternal, "oauth sign-in failed")
			return
		}
		response.Success(c, AuthTokenView{User: user, Token: token, ExpiresAt: expiresAt})
		return
	}
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// OAuthCallback completes the provider handshake and signs the user in.
func (h *Handler) OAuthCallback(c *gin.Context) {
	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		respondError(c, response.CodeBadRequest, "oauth callback failed", err)
		return
	}

	user, token, expiresAt, err := h.OAuthService.CompleteSignIn(gothUser)
	if err != nil {
		respondWithMappedError(c, err, oauthErrorRules, response.CodeInternal, "oauth sign-in failed")
		return
	}
	response.Success(c, AuthTokenView{User: user, Token: token, ExpiresAt: expiresAt})
}
