package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tesseract-hub/directory-service/internal/cache"
	"github.com/tesseract-hub/directory-service/internal/config"
	"github.com/tesseract-hub/directory-service/internal/handlers"
	"github.com/tesseract-hub/directory-service/internal/metrics"
	"github.com/tesseract-hub/directory-service/internal/middleware"
	"github.com/tesseract-hub/directory-service/internal/models"
	directoryNats "github.com/tesseract-hub/directory-service/internal/nats"
	"github.com/tesseract-hub/directory-service/internal/repository"
	"github.com/tesseract-hub/directory-service/internal/scheduler"
	"github.com/tesseract-hub/directory-service/internal/seeder"
	"github.com/tesseract-hub/directory-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
	})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize database connection
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	logger.Info("Database connection established")

	// Seed the default category tree
	if err := seeder.SeedDatabase(db); err != nil {
		logger.WithError(err).Warn("Failed to seed categories")
	}

	// Initialize Redis client
	redisClient := initRedis(cfg, logger)
	defer func() {
		if redisClient != nil {
			redisClient.Close()
		}
	}()

	// Initialize Prometheus metrics
	m := metrics.New()
	logger.Info("Prometheus metrics initialized")

	// Initialize cache
	directoryCache := cache.NewDirectoryCache(cache.Config{
		RedisClient: redisClient,
		Logger:      logger,
		TTL:         time.Duration(cfg.Directory.CategoryCacheTTL) * time.Second,
		OnLookup: func(key, outcome string) {
			m.CacheHits.WithLabelValues(key, outcome).Inc()
		},
	})
	logger.Info("Directory cache initialized")

	// Initialize NATS client for domain event publishing
	var natsClient *directoryNats.Client
	var natsPublisher *directoryNats.Publisher
	if cfg.NATS.Enabled {
		natsClient, err = directoryNats.NewClient(directoryNats.Config{
			URL:           cfg.NATS.URL,
			MaxReconnects: cfg.NATS.MaxReconnects,
			ReconnectWait: time.Duration(cfg.NATS.ReconnectWait) * time.Second,
		}, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize NATS, event publishing disabled")
		} else {
			natsPublisher = directoryNats.NewPublisher(natsClient, logger)
			logger.Info("NATS client initialized for event publishing")
		}
	} else {
		logger.Info("NATS disabled, domain events will not be published")
	}
	defer func() {
		if natsClient != nil {
			natsClient.Close()
		}
	}()

	// Initialize repositories
	businessRepo := repository.NewBusinessRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize email sender
	var emailSender services.EmailSender
	if cfg.Email.SendGridAPIKey != "" {
		emailSender = services.NewSendGridSender(cfg.Email.SendGridAPIKey, cfg.Email.FromEmail, cfg.Email.FromName)
		logger.Info("SendGrid email sender initialized")
	} else {
		logger.Warn("SendGrid API key not configured, owner notifications disabled")
	}

	// Initialize services
	directoryService := services.NewDirectoryService(businessRepo, reviewRepo, categoryRepo, directoryCache, services.DirectoryConfig{
		DefaultPageSize:    cfg.Directory.DefaultPageSize,
		MaxPageSize:        cfg.Directory.MaxPageSize,
		AccurateRatingSort: cfg.Directory.AccurateRatingSort,
	}, logger)
	categoryService := services.NewCategoryService(categoryRepo, directoryCache, logger)
	businessService := services.NewBusinessService(businessRepo, categoryRepo, natsPublisher, directoryCache, logger)
	reviewService := services.NewReviewService(reviewRepo, businessRepo, directoryCache, logger)
	leadService := services.NewLeadService(leadRepo, businessRepo, natsPublisher, logger)
	notificationService := services.NewNotificationService(emailSender, cfg.Email.BaseURL, logger)
	moderationService := services.NewModerationService(
		businessRepo, reviewRepo, moderationRepo, userRepo,
		notificationService, categoryService, directoryCache, natsPublisher, logger,
	)

	// Initialize handlers
	businessHandlers := handlers.NewBusinessHandlers(directoryService, businessService, m, logger)
	categoryHandlers := handlers.NewCategoryHandlers(categoryService, logger)
	reviewHandlers := handlers.NewReviewHandlers(reviewService, m, logger)
	leadHandlers := handlers.NewLeadHandlers(leadService, m, logger)
	adminHandlers := handlers.NewAdminHandlers(moderationService, directoryService, reviewService, logger)

	// Initialize cleanup scheduler for retention management
	cleanupScheduler := scheduler.NewCleanupScheduler(moderationRepo, cfg.Retention, logger)
	if err := cleanupScheduler.Start(); err != nil {
		logger.WithError(err).Warn("Failed to start cleanup scheduler (continuing without scheduled cleanup)")
	}
	defer cleanupScheduler.Stop()

	// Setup router
	router := setupRouter(cfg, m, directoryCache, db,
		businessHandlers, categoryHandlers, reviewHandlers, leadHandlers, adminHandlers)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down Directory Service...")

		cleanupScheduler.Stop()
		if natsClient != nil {
			natsClient.Close()
		}
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}

		log.Println("Directory service stopped")
		os.Exit(0)
	}()

	// Start server
	log.Printf("Starting Directory Service on %s", cfg.GetServerAddress())
	if err := router.Run(cfg.GetServerAddress()); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDatabase opens the Postgres connection and runs migrations
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), gormConfig)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Business{},
		&models.Review{},
		&models.Lead{},
		&models.AbuseReport{},
		&models.AdminActionLog{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// initRedis initializes the Redis client
func initRedis(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.Redis.URL == "" {
		logger.Warn("Redis URL not configured, caching will use local memory only")
		return nil
	}

	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse Redis URL, using local memory cache only")
		return nil
	}
	opt.MaxRetries = cfg.Redis.MaxRetries
	opt.PoolSize = cfg.Redis.PoolSize
	opt.MinIdleConns = cfg.Redis.MinIdleConns

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis, using local memory cache only")
		return nil
	}

	logger.Info("Redis connection established")
	return client
}

// setupRouter configures the Gin router with middleware and routes
func setupRouter(
	cfg *config.Config,
	m *metrics.Metrics,
	directoryCache *cache.DirectoryCache,
	db *gorm.DB,
	businessHandlers *handlers.BusinessHandlers,
	categoryHandlers *handlers.CategoryHandlers,
	reviewHandlers *handlers.ReviewHandlers,
	leadHandlers *handlers.LeadHandlers,
	adminHandlers *handlers.AdminHandlers,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Identity())
	router.Use(middleware.SetupCORS())
	router.Use(m.GinMiddleware())
	if !cfg.IsProduction() {
		router.Use(middleware.Logger())
	}

	// Health and monitoring
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "directory-service",
			"time":    time.Now().UTC(),
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"cache":  directoryCache.Stats(),
		})
	})
	router.GET("/metrics", metrics.Handler())

	v1 := router.Group("/api/v1")
	{
		// Public directory surface
		v1.GET("/businesses", businessHandlers.SearchBusinesses)
		v1.GET("/businesses/mine", middleware.RequireUser(), businessHandlers.ListOwnListings)
		v1.GET("/businesses/:slug", businessHandlers.GetBusiness)
		v1.GET("/categories", categoryHandlers.ListCategories)
		v1.GET("/categories/:slug", categoryHandlers.GetCategory)
		v1.GET("/stats", businessHandlers.GetDirectoryStats)

		// Owner surface
		v1.POST("/businesses", middleware.RequireUser(), businessHandlers.RegisterBusiness)
		v1.PUT("/businesses/id/:id", middleware.RequireUser(), businessHandlers.UpdateBusiness)

		// Reviews and leads keyed by business ID
		v1.GET("/businesses/id/:id/reviews", reviewHandlers.ListReviews)
		v1.POST("/businesses/id/:id/reviews", middleware.RequireUser(), reviewHandlers.SubmitReview)
		v1.POST("/businesses/id/:id/leads", leadHandlers.CaptureLead)
		v1.GET("/businesses/id/:id/leads", middleware.RequireUser(), leadHandlers.ListLeads)
		v1.GET("/businesses/id/:id/leads/stats", middleware.RequireUser(), leadHandlers.GetLeadStats)
		v1.PATCH("/leads/:id/status", middleware.RequireUser(), leadHandlers.UpdateLeadStatus)
		v1.PATCH("/leads/:id/priority", middleware.RequireUser(), leadHandlers.UpdateLeadPriority)

		// Abuse reports may come from any caller
		v1.POST("/reports", adminHandlers.SubmitReport)

		// Moderation surface
		admin := v1.Group("/admin", middleware.RequireUser(), middleware.RequireStaff())
		{
			admin.GET("/businesses", adminHandlers.SearchAllBusinesses)
			admin.PATCH("/businesses/:id/status", adminHandlers.UpdateBusinessStatus)
			admin.GET("/businesses/:id/reviews", adminHandlers.ListBusinessReviews)
			admin.PATCH("/reviews/:id/visibility", adminHandlers.SetReviewVisibility)
			admin.GET("/reports", adminHandlers.ListReports)
			admin.PATCH("/reports/:id", adminHandlers.ResolveReport)
			admin.GET("/action-logs", adminHandlers.ListActionLogs)
		}
	}

	return router
}
