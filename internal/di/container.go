package di

import (
	"time"

	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/handler"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/database"
	"github.com/nightlife-hub/nightpass/pkg/redis"
)

// Container holds all dependencies for the API
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	VenueRepo  repository.VenueRepository
	DJRepo     repository.DJRepository
	EventRepo  repository.EventRepository
	TicketRepo repository.TicketRepository
	ReviewRepo repository.ReviewRepository
	UserRepo   repository.UserRepository

	// Services
	Directory           service.VenueDirectory
	VenueService        service.VenueService
	DJService           service.DJService
	EventService        service.EventService
	UserService         service.UserService
	TicketService       service.TicketService
	CheckoutService     service.CheckoutService
	ConfirmationService service.ConfirmationService
	ReviewService       service.ReviewService
	RewardService       service.RewardService

	// Handlers
	HealthHandler   *handler.HealthHandler
	VenueHandler    *handler.VenueHandler
	DJHandler       *handler.DJHandler
	EventHandler    *handler.EventHandler
	UserHandler     *handler.UserHandler
	TicketHandler   *handler.TicketHandler
	CheckoutHandler *handler.CheckoutHandler
	WebhookHandler  *handler.WebhookHandler
	ReviewHandler   *handler.ReviewHandler
	RewardHandler   *handler.RewardHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	ServiceName string

	// DB nil selects the in-memory repositories
	DB *database.PostgresDB

	// Redis nil disables the venue cache
	Redis    *redis.Client
	CacheTTL time.Duration

	Gateway        gateway.PaymentGateway
	CheckoutConfig *service.CheckoutConfig

	// TierTrigger nil recalculates venue tiers inline
	TierTrigger service.TierTrigger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:    cfg.DB,
		Redis: cfg.Redis,
	}

	c.initRepositories(cfg)

	c.Directory = service.NewVenueDirectory(c.VenueRepo, c.DJRepo)
	trigger := cfg.TierTrigger
	if trigger == nil {
		trigger = service.NewInlineTierTrigger(c.Directory)
	}

	// Initialize services
	c.VenueService = service.NewVenueService(c.VenueRepo)
	c.DJService = service.NewDJService(c.DJRepo)
	c.EventService = service.NewEventService(c.EventRepo, c.TicketRepo, c.Directory)
	c.UserService = service.NewUserService(c.UserRepo)
	c.TicketService = service.NewTicketService(c.TicketRepo, c.EventRepo, c.Directory)
	c.CheckoutService = service.NewCheckoutService(c.EventRepo, c.TicketRepo, c.UserRepo, c.Directory, cfg.Gateway, cfg.CheckoutConfig)
	c.ConfirmationService = service.NewConfirmationService(c.EventRepo, c.TicketRepo, c.UserRepo, cfg.Gateway, trigger)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.EventRepo)
	c.RewardService = service.NewRewardService(c.ReviewRepo, c.EventRepo, c.Directory)

	// Initialize handlers
	checks := map[string]handler.HealthChecker{}
	if c.DB != nil {
		checks["postgres"] = c.DB
	}
	if c.Redis != nil {
		checks["redis"] = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(cfg.ServiceName, checks)
	c.VenueHandler = handler.NewVenueHandler(c.VenueService)
	c.DJHandler = handler.NewDJHandler(c.DJService)
	c.EventHandler = handler.NewEventHandler(c.EventService)
	c.UserHandler = handler.NewUserHandler(c.UserService)
	c.TicketHandler = handler.NewTicketHandler(c.TicketService)
	c.CheckoutHandler = handler.NewCheckoutHandler(c.CheckoutService)
	c.WebhookHandler = handler.NewWebhookHandler(c.ConfirmationService)
	c.ReviewHandler = handler.NewReviewHandler(c.ReviewService)
	c.RewardHandler = handler.NewRewardHandler(c.RewardService)

	return c
}

func (c *Container) initRepositories(cfg *ContainerConfig) {
	if c.DB != nil {
		pool := c.DB.Pool()
		c.VenueRepo = repository.NewPostgresVenueRepository(pool)
		c.DJRepo = repository.NewPostgresDJRepository(pool)
		c.EventRepo = repository.NewPostgresEventRepository(pool)
		c.TicketRepo = repository.NewPostgresTicketRepository(pool)
		c.ReviewRepo = repository.NewPostgresReviewRepository(pool)
		c.UserRepo = repository.NewPostgresUserRepository(pool)
	} else {
		events := repository.NewMemoryEventRepository()
		c.VenueRepo = repository.NewMemoryVenueRepository()
		c.DJRepo = repository.NewMemoryDJRepository()
		c.EventRepo = events
		c.TicketRepo = repository.NewMemoryTicketRepository(events)
		c.ReviewRepo = repository.NewMemoryReviewRepository()
		c.UserRepo = repository.NewMemoryUserRepository()
	}

	if c.Redis != nil {
		c.VenueRepo = repository.NewCachedVenueRepository(c.VenueRepo, c.Redis, cfg.CacheTTL)
	}
}
