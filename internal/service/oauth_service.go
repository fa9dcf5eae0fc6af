package service

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/config"
	"github.com/jewgo-app/jewgo-api/internal/constants"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/repository"

	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
)

// OAuthService completes federated sign-in against the user store.
type OAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
	userAuth *UserAuthService
}

// NewOAuthService creates the OAuth service.
func NewOAuthService(cfg *config.Config, userRepo repository.UserRepository, userAuth *UserAuthService) *OAuthService {
	return &OAuthService{
		cfg:      cfg,
		userRepo: userRepo,
		userAuth: userAuth,
	}
}

// InitProviders wires the goth session store and the enabled providers.
// Must run once before the OAuth routes are served.
func InitProviders(cfg *config.Config) {
	secret := strings.TrimSpace(cfg.OAuth.SessionSecret)
	if secret == "" {
		secret = "oauth-change-me-in-production"
	}
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(600)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   strings.HasPrefix(strings.TrimSpace(cfg.Server.BaseURL), "https://"),
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store
	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := strings.Trim(strings.TrimPrefix(req.URL.Path, "/api/v1/auth/oauth/"), "/"); provider != "" {
			return strings.SplitN(provider, "/", 2)[0], nil
		}
		return "", errors.New("provider not found")
	}

	var providers []goth.Provider
	if cfg.OAuth.Google.Enabled && strings.TrimSpace(cfg.OAuth.Google.ClientID) != "" {
		callback := strings.TrimSpace(cfg.OAuth.Google.CallbackURL)
		if callback == "" {
			callback = strings.TrimRight(strings.TrimSpace(cfg.Server.BaseURL), "/") + "/api/v1/auth/oauth/google/callback"
		}
		providers = append(providers, google.New(
			cfg.OAuth.Google.ClientID,
			cfg.OAuth.Google.ClientSecret,
			callback,
		))
		logger.Infow("oauth_provider_enabled", "provider", constants.OAuthProviderGoogle)
	}
	if len(providers) > 0 {
		goth.UseProviders(providers...)
	}
}

// CompleteSignIn turns a provider identity into a local session: match by
// (provider, subject), else link by verified email, else create an account.
func (s *OAuthService) CompleteSignIn(gothUser goth.User) (*models.User, string, time.Time, error) {
	if s == nil || s.userRepo == nil || s.userAuth == nil {
		return nil, "", time.Time{}, ErrOAuthFailed
	}
	provider := strings.TrimSpace(strings.ToLower(gothUser.Provider))
	subject := strings.TrimSpace(gothUser.UserID)
	if provider == "" || subject == "" {
		return nil, "", time.Time{}, ErrOAuthFailed
	}

	now := time.Now()
	user, err := s.userRepo.GetByOAuth(provider, subject)
	if err != nil {
		return nil, "", time.Time{}, ErrUserFetchFailed
	}

	if user == nil {
		normalized, emailErr := normalizeEmail(gothUser.Email)
		if emailErr != nil {
			return nil, "", time.Time{}, ErrOAuthFailed
		}
		user, err = s.userRepo.GetByEmail(normalized)
		if err != nil {
			return nil, "", time.Time{}, ErrUserFetchFailed
		}
		if user != nil {
			// Existing password/magic-link account: link the identity.
			user.OAuthProvider = provider
			user.OAuthSubject = subject
			if user.EmailVerifiedAt == nil {
				user.EmailVerifiedAt = &now
			}
			user.UpdatedAt = now
			if err := s.userRepo.Update(user); err != nil {
				return nil, "", time.Time{}, ErrUserFetchFailed
			}
		} else {
			name := strings.TrimSpace(gothUser.Name)
			if name == "" {
				name = resolveNameFromEmail(normalized)
			}
			user = &models.User{
				Email:           normalized,
				DisplayName:     name,
				AvatarURL:       strings.TrimSpace(gothUser.AvatarURL),
				Status:          constants.UserStatusActive,
				OAuthProvider:   provider,
				OAuthSubject:    subject,
				EmailVerifiedAt: &now,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.userRepo.Create(user); err != nil {
				if isUniqueViolation(err) {
					return nil, "", time.Time{}, ErrEmailTaken
				}
				return nil, "", time.Time{}, ErrUserCreateFailed
			}
		}
	}

	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserDisabled
	}

	token, expiresAt, err := s.userAuth.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, ErrOAuthFailed
	}
	if err := s.userRepo.UpdateLastLogin(user.ID, now); err != nil {
		logger.Warnw("last_login_update_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("oauth_signed_in", "user_id", user.ID, "provider", provider)
	return user, token, expiresAt, nil
}
