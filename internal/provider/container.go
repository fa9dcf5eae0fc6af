package provider

import (
	"time"

	"github.com/jewgo-app/jewgo-api/internal/authz"
	"github.com/jewgo-app/jewgo-api/internal/cache"
	"github.com/jewgo-app/jewgo-api/internal/config"
	"github.com/jewgo-app/jewgo-api/internal/logger"
	"github.com/jewgo-app/jewgo-api/internal/models"
	"github.com/jewgo-app/jewgo-api/internal/queue"
	"github.com/jewgo-app/jewgo-api/internal/repository"
	"github.com/jewgo-app/jewgo-api/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	Cache       *cache.Cache
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	UserRepo         repository.UserRepository
	GuestSessionRepo repository.GuestSessionRepository
	MagicLinkRepo    repository.MagicLinkRepository
	RestaurantRepo   repository.RestaurantRepository
	SpecialRepo      repository.SpecialRepository
	ClaimRepo        repository.ClaimRepository
	SpecialEventRepo repository.SpecialEventRepository
	ListingRepo      repository.ListingRepository

	// Services
	AuthzService        *authz.Service
	AuthService         *service.AuthService
	UserAuthService     *service.UserAuthService
	EmailService        *service.EmailService
	MagicLinkService    *service.MagicLinkService
	OAuthService        *service.OAuthService
	GuestSessionService *service.GuestSessionService
	RestaurantService   *service.RestaurantService
	SpecialService      *service.SpecialService
	SpecialAdminService *service.SpecialAdminService
	ListingService      *service.ListingService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	readCache := cache.New(&cfg.Redis)

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		Cache:       readCache,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.GuestSessionRepo = repository.NewGuestSessionRepository(db)
	c.MagicLinkRepo = repository.NewMagicLinkRepository(db)
	c.RestaurantRepo = repository.NewRestaurantRepository(db)
	c.SpecialRepo = repository.NewSpecialRepository(db)
	c.ClaimRepo = repository.NewClaimRepository(db)
	c.SpecialEventRepo = repository.NewSpecialEventRepository(db)
	c.ListingRepo = repository.NewListingRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.MagicLinkService = service.NewMagicLinkService(c.Config, c.MagicLinkRepo, c.UserRepo, c.UserAuthService, c.EmailService, c.QueueClient)
	c.OAuthService = service.NewOAuthService(c.Config, c.UserRepo, c.UserAuthService)
	c.GuestSessionService = service.NewGuestSessionService(c.GuestSessionRepo)
	c.RestaurantService = service.NewRestaurantService(c.RestaurantRepo)
	c.SpecialService = service.NewSpecialService(
		c.SpecialRepo,
		c.ClaimRepo,
		c.SpecialEventRepo,
		c.QueueClient,
		c.Cache,
		time.Duration(c.Config.Specials.ActiveCacheTTLSeconds)*time.Second,
		c.Config.Specials.QRCodeSize,
	)
	c.SpecialAdminService = service.NewSpecialAdminService(c.SpecialRepo, c.ClaimRepo, c.SpecialEventRepo, c.RestaurantRepo, c.QueueClient)
	c.ListingService = service.NewListingService(c.ListingRepo)
}
