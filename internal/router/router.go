package router

import (
	"fmt"
	"strings"

	"github.com/jewgo-app/jewgo-api/internal/config"
	adminhandlers "github.com/jewgo-app/jewgo-api/internal/http/handlers/admin"
	publichandlers "github.com/jewgo-app/jewgo-api/internal/http/handlers/public"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires the HTTP surface.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "jg"
	}
	redisClient := c.Cache.Client()
	loginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many sign-in attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many sign-in attempts",
	}
	magicLinkRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:magic_link", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.LoginRateLimit.BlockSeconds,
		Message:       "too many magic link requests",
	}
	claimRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:claim", redisPrefix),
		WindowSeconds: cfg.Security.ClaimRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ClaimRateLimit.MaxAttempts,
		BlockSeconds:  cfg.Security.ClaimRateLimit.BlockSeconds,
		Message:       "too many claim attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	r.GET("/healthz", publicHandler.Healthz)

	apiV1 := r.Group("/api/v1")
	{
		// Public, unauthenticated surface.
		public := apiV1.Group("/public")
		{
			public.GET("/health", publicHandler.Health)
			public.GET("/specials", publicHandler.ListActiveSpecials)
			public.GET("/specials/:id", publicHandler.GetSpecial)
			public.GET("/restaurants", publicHandler.ListRestaurants)
			public.GET("/restaurants/:slug", publicHandler.GetRestaurantBySlug)
			public.GET("/listings", publicHandler.ListListings)
			public.GET("/listings/:id", publicHandler.GetListing)
		}

		// Anonymous visitors get a server-issued session id.
		guest := apiV1.Group("/guest")
		{
			guest.POST("/session", publicHandler.CreateGuestSession)
		}

		// Member authentication.
		auth := apiV1.Group("/auth")
		{
			auth.POST("/register", publicHandler.RegisterUser)
			auth.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("email")), publicHandler.LoginUser)
			auth.POST("/magic-link", RateLimitMiddleware(redisClient, magicLinkRule, KeyByIPAndJSONField("email")), publicHandler.RequestMagicLink)
			auth.GET("/magic-link/verify", publicHandler.VerifyMagicLink)
			auth.POST("/magic-link/verify", publicHandler.VerifyMagicLink)
			auth.GET("/oauth/:provider", publicHandler.BeginOAuth)
			auth.GET("/oauth/:provider/callback", publicHandler.OAuthCallback)
		}

		// Claim flow accepts either a member token or a guest session.
		claims := apiV1.Group("/specials")
		claims.Use(OptionalUserJWTMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			claims.POST("/:id/claim", RateLimitMiddleware(redisClient, claimRule, KeyByIP), publicHandler.ClaimSpecial)
			claims.POST("/:id/track", publicHandler.TrackEvent)
			claims.GET("/:id/claims/:claim_id/qr", publicHandler.ClaimQRCode)
		}

		// Redemption happens at the counter under a staff token.
		staff := apiV1.Group("/specials")
		staff.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
		{
			staff.POST("/:id/redeem", publicHandler.RedeemClaim)
		}

		// Signed-in member surface.
		user := apiV1.Group("")
		user.Use(UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo))
		{
			user.GET("/me", publicHandler.GetProfile)
			user.PUT("/me/profile", publicHandler.UpdateProfile)
			user.PUT("/me/password", publicHandler.ChangeUserPassword)
			user.POST("/listings", publicHandler.CreateListing)
			user.PUT("/listings/:id", publicHandler.UpdateListing)
			user.POST("/listings/:id/sold", publicHandler.MarkListingSold)
			user.DELETE("/listings/:id", publicHandler.RemoveListing)
		}

		// Back office.
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo), AdminRBACMiddleware(c.AuthzService))
			{
				authorized.PUT("/password", adminHandler.ChangeAdminPassword)

				authorized.GET("/specials", adminHandler.GetAdminSpecials)
				authorized.GET("/specials/:id", adminHandler.GetAdminSpecial)
				authorized.POST("/specials", adminHandler.CreateAdminSpecial)
				authorized.PUT("/specials/:id", adminHandler.UpdateAdminSpecial)
				authorized.DELETE("/specials/:id", adminHandler.DeleteAdminSpecial)
				authorized.GET("/specials/:id/claims", adminHandler.GetAdminSpecialClaims)
				authorized.POST("/specials/:id/claims/:claim_id/cancel", adminHandler.CancelAdminClaim)
				authorized.GET("/specials/:id/stats", adminHandler.GetAdminSpecialStats)

				authorized.GET("/restaurants", adminHandler.GetAdminRestaurants)
				authorized.GET("/restaurants/:id", adminHandler.GetAdminRestaurant)
				authorized.POST("/restaurants", adminHandler.CreateAdminRestaurant)
				authorized.PUT("/restaurants/:id", adminHandler.UpdateAdminRestaurant)
				authorized.POST("/restaurants/:id/approve", adminHandler.ApproveAdminRestaurant)
				authorized.DELETE("/restaurants/:id", adminHandler.DeleteAdminRestaurant)

				authorized.GET("/listings", adminHandler.GetAdminListings)
				authorized.POST("/listings/:id/moderate", adminHandler.ModerateAdminListing)

				authorized.GET("/users", adminHandler.GetAdminUsers)
				authorized.PUT("/users/:id/status", adminHandler.UpdateAdminUserStatus)

				// Role and operator management, including restaurant staff
				// provisioning.
				authorized.GET("/authz/me", adminHandler.GetAuthzMe)
				authorized.GET("/authz/roles", adminHandler.ListAuthzRoles)
				authorized.POST("/authz/roles", adminHandler.CreateAuthzRole)
				authorized.DELETE("/authz/roles/:role", adminHandler.DeleteAuthzRole)
				authorized.GET("/authz/roles/:role/policies", adminHandler.GetAuthzRolePolicies)
				authorized.POST("/authz/policies", adminHandler.GrantAuthzPolicy)
				authorized.DELETE("/authz/policies", adminHandler.RevokeAuthzPolicy)
				authorized.GET("/authz/admins", adminHandler.ListAuthzAdmins)
				authorized.POST("/authz/admins", adminHandler.CreateAuthzAdmin)
				authorized.PUT("/authz/admins/:id", adminHandler.UpdateAuthzAdmin)
				authorized.GET("/authz/admins/:id/roles", adminHandler.GetAuthzAdminRoles)
				authorized.PUT("/authz/admins/:id/roles", adminHandler.SetAuthzAdminRoles)
			}
		}
	}

	return r
}
