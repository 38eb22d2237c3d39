package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"library-backend/internal/config"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/events"
	"library-backend/internal/infrastructure/metrics"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/jwt"

	"library-backend/internal/domains/author"
	authorHandler "library-backend/internal/domains/author/handler"
	authorJob "library-backend/internal/domains/author/job"
	authorRepo "library-backend/internal/domains/author/repository"
	authorService "library-backend/internal/domains/author/service"

	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"

	"library-backend/internal/domains/user"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"

	exportHandler "library-backend/internal/domains/export/handler"
	exportService "library-backend/internal/domains/export/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config     *config.Config
	DB         *database.PostgresDB // nil when built around an external pool
	Registry   *prometheus.Registry
	Metrics    *metrics.Collector
	Bus        *events.Bus
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	AuthorRepo author.Repository
	BookRepo   bookRepo.RepositoryInterface
	UserRepo   user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================
	AuthorService author.Service
	BookService   bookService.ServiceInterface
	UserService   user.Service
	ExportService *exportService.ExportService

	// ========================================
	// JOBS
	// ========================================
	BookCountJob *authorJob.BookCountJob

	// ========================================
	// HANDLER LAYER
	// ========================================
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.Handler
	UserHandler   *userHandler.UserHandler
	ExportHandler *exportHandler.ExportHandler

	// ========================================
	// RATE LIMITERS
	// ========================================
	GeneralLimiter *middleware.RateLimiter
	AuthLimiter    *middleware.RateLimiter
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer connects to PostgreSQL, applies migrations when enabled and
// wires everything on top of the pool.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.Database.URL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("[DATABASE] Migrations applied")
	}

	c, err := Build(cfg, db.Pool)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c.DB = db

	log.Info().Msg("✅ Container initialized")
	return c, nil
}

// Build wires repositories, services, the event bus, the book count job and
// handlers on top of pool. The bus is sealed before Build returns.
func Build(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	c := &Container{Config: cfg}

	// Step 1: metrics
	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.NewCollector(c.Registry)

	// Step 2: event bus and token manager
	c.Bus = events.NewBus(events.WithObserver(c.Metrics))
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Step 3: repositories
	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)

	// Step 4: services
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo, c.Bus)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.ExportService = exportService.NewExportService(c.AuthorRepo, c.BookRepo)

	// Step 5: subscribers, then seal
	c.BookCountJob = authorJob.NewBookCountJob(c.AuthorService, c.Metrics)
	if err := c.BookCountJob.Register(c.Bus); err != nil {
		return nil, err
	}
	c.Bus.Seal()

	// Step 6: handlers
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.ExportHandler = exportHandler.NewExportHandler(c.ExportService)

	// Step 7: rate limiters
	c.GeneralLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Name:    "general",
		Max:     cfg.RateLimit.Max,
		Window:  cfg.RateLimit.Window,
		Message: "Too many requests, please try again later.",
	})
	c.AuthLimiter = middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Name:    "auth",
		Max:     cfg.RateLimit.AuthMax,
		Window:  cfg.RateLimit.Window,
		Message: "Too many authentication attempts, please try again later.",
	})

	return c, nil
}

// ========================================
// CLEANUP
// ========================================

// Cleanup waits up to timeout for detached jobs, then stops the limiters
// and closes the pool. HTTP must already be stopped.
func (c *Container) Cleanup(timeout time.Duration) {
	log.Info().Msg("🧹 Cleaning up resources...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := c.Bus.WaitContext(ctx); err != nil {
		log.Warn().Err(err).Msg("Background jobs still running at shutdown")
	}

	c.GeneralLimiter.Stop()
	c.AuthLimiter.Stop()

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Error().Err(err).Msg("❌ Failed to close database")
		} else {
			log.Info().Msg("✅ Database connection closed")
		}
	}
}
