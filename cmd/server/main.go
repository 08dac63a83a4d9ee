package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/auth"
	"github.com/yukikurage/fest-registration-api/internal/config"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/handlers"
	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/logging"
	"github.com/yukikurage/fest-registration-api/internal/middleware"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"github.com/yukikurage/fest-registration-api/internal/services"
	"github.com/yukikurage/fest-registration-api/internal/storage"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, false).Error(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.IsProduction())
	fatal := func(msg string, err error) {
		log.Error(ctx, msg, "error", err)
		os.Exit(1)
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(ctx, cfg, log); err != nil {
		fatal("failed to connect to database", err)
	}

	// Run migrations
	if err := database.Migrate(ctx, log); err != nil {
		fatal("failed to run migrations", err)
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)))

	// Session store: Redis when configured, signed cookies otherwise
	sessionStore, err := newSessionStore(cfg)
	if err != nil {
		fatal("failed to create session store", err)
	}
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Object storage is optional; uploads and export links answer 503 without it
	var objectStore storage.ObjectStore
	if cfg.StorageEnabled() {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			fatal("failed to initialize object storage", err)
		}
		objectStore = s3Store
	} else {
		log.Warn(ctx, "object storage not configured")
	}

	analyticsLoc, err := time.LoadLocation(cfg.AnalyticsTZ)
	if err != nil {
		fatal("invalid analytics timezone", err)
	}

	// Repositories and services
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db, nil)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	eventService := services.NewEventService(eventRepo, objectStore)
	adminService := services.NewAdminQueryService(registrationRepo, eventService)
	continuation := auth.NewContinuation([]byte(cfg.SessionSecret), constants.ContinuationTTL)
	responder := handlers.NewResponder(log, cfg.IsProduction())

	// Initialize handlers
	handlers.RegisterRoutes(r, &handlers.Set{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(userRepo, cfg.AdminEmails), responder),
		Profile: handlers.NewProfileHandler(services.NewProfileService(userRepo), continuation, responder),
		Events:  handlers.NewEventHandler(eventService, adminService, responder),
		Registrations: handlers.NewRegistrationHandler(
			services.NewRegistrationService(userRepo, eventRepo, registrationRepo, identity.NewRegistrationIDGenerator(nil)),
			continuation,
			responder,
		),
		Admin: handlers.NewAdminHandler(
			adminService,
			services.NewPaymentService(registrationRepo, eventRepo),
			services.NewExportService(registrationRepo, objectStore),
			responder,
		),
		Analytics: handlers.NewAnalyticsHandler(
			services.NewAnalyticsService(registrationRepo, eventRepo, userRepo, analyticsLoc),
			responder,
		),
	})

	// Start server
	addr := ":" + cfg.Port
	log.Info(ctx, "server starting", "addr", addr, "db_driver", cfg.DBDriver)
	if err := r.Run(addr); err != nil {
		fatal("failed to start server", err)
	}
}

func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	if cfg.RedisHost == "" {
		return cookie.NewStore([]byte(cfg.SessionSecret)), nil
	}
	return redisStore.NewStore(
		10,                              // Redis pool size
		"tcp",                           // network type
		cfg.RedisHost+":"+cfg.RedisPort, // Redis address from config
		"",                              // password (empty = no password)
		[]byte(cfg.SessionSecret),       // authentication key
	)
}
