package public

import (
	"time"

	"github.com/jewgo-app/jewgo-api/internal/http/response"
	"github.com/jewgo-app/jewgo-api/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthTokenView pairs a signed-in user with their session token.
type AuthTokenView struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserRegisterRequest creates a password account.
type UserRegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
}

// RegisterUser creates an account and signs it in.
func (h *Handler) RegisterUser(c *gin.Context) {
	var req UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		respondWithMappedError(c, err, registerErrorRules, response.CodeInternal, "failed to register")
		return
	}
	response.Created(c, AuthTokenView{User: user, Token: token, ExpiresAt: expiresAt})
}

// UserLoginRequest signs in with email and password.
type UserLoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginUser authenticates a password account.
func (h *Handler) LoginUser(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password, req.RememberMe)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules, response.CodeInternal, "failed to sign in")
		return
	}
	response.Success(c, AuthTokenView{User: user, Token: token, ExpiresAt: expiresAt})
}

// GetProfile returns the authenticated user's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest carries profile changes.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	AvatarURL   *string `json:"avatar_url"`
}

// UpdateProfile updates the authenticated user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	user, err := h.UserAuthService.UpdateProfile(userID, req.DisplayName, req.AvatarURL)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to update profile", err)
		return
	}
	response.Success(c, user)
}

// ChangePasswordRequest rotates the account password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangeUserPassword rotates the authenticated user's password.
func (h *Handler) ChangeUserPassword(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.UserAuthService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		respondWithMappedError(c, err, append(registerErrorRules, loginErrorRules...), response.CodeInternal, "failed to change password")
		return
	}
	response.Success(c, nil)
}

// MagicLinkRequestRequest asks for a sign-in link.
type MagicLinkRequestRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestMagicLink issues a single-use sign-in link. The response is the
// same whether or not an account exists for the address.
func (h *Handler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if err := h.MagicLinkService.Request(req.Email); err != nil {
		respondWithMappedError(c, err, magicLinkRequestErrorRules, response.CodeInternal, "failed to send magic link")
		return
	}
	response.SuccessWithMsg(c, "magic link sent if the address is valid", nil)
}

// VerifyMagicLink exchanges a link token for a session token.
func (h *Handler) VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var body struct {
			Token string `json:"token"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			token = body.Token
		}
	}
	if token == "" {
		respondError(c, response.CodeBadRequest, "token required", nil)
		return
	}

	user, jwtToken, expiresAt, err := h.MagicLinkService.Verify(token)
	if err != nil {
		respondWithMappedError(c, err, magicLinkVerifyErrorRules, response.CodeInternal, "failed to verify magic link")
		return
	}
	response.Success(c, AuthTokenView{User: user, Token: jwtToken, ExpiresAt: expiresAt})
}
