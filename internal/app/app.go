package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/rueidis"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"peerlink_backend/database"
	"peerlink_backend/internal/cache"
	"peerlink_backend/internal/config"
	"peerlink_backend/internal/email"
	"peerlink_backend/internal/handlers"
	"peerlink_backend/internal/logger"
	"peerlink_backend/internal/middleware"
	"peerlink_backend/internal/repositories"
	"peerlink_backend/internal/services"
	"peerlink_backend/internal/storage"
	"peerlink_backend/internal/validator"
)

// Run boots the server: config, logger, database, redis, storage, router.
func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", "error", err)
	}
	defer redisClient.Close()
	logger.Info("Redis connected", "host", cfg.Redis.Host)

	ginRouter := SetupRouter(cfg, gormDB, redisClient)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services and handlers into a gin engine.
// Split out from Run so tests can stand up the full router against their
// own database and redis.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, redisClient rueidis.Client) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var emailProvider email.Provider
	if cfg.Email.Enabled {
		emailProvider = email.NewSMTPProvider(email.Config{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("Email disabled, using mock provider")
		emailProvider = &MockEmailProvider{}
	}

	// Repositories
	userRepo := repositories.NewUserRepository(gormDB)
	reviewRepo := repositories.NewReviewRepository(gormDB)
	favoriteRepo := repositories.NewFavoriteRepository(gormDB)
	socialRepo := repositories.NewSocialAccountRepository(gormDB)

	// Cache
	ratingsCache := cache.NewRedisRatingsCache(redisClient)

	// Services
	authService := services.NewAuthService(userRepo, emailProvider)
	reviewService := services.NewReviewService(reviewRepo, userRepo, favoriteRepo, ratingsCache)
	userService := services.NewUserService(userRepo, reviewRepo, socialRepo, storageInstance)

	// Handlers
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)
	authHandler := handlers.NewAuthHandler(baseHandler, authService)
	reviewHandler := handlers.NewReviewHandler(baseHandler, reviewService)
	userHandler := handlers.NewUserHandler(baseHandler, userService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())

	ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := ginRouter.Group("/api/v1")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	reviewHandler.RegisterRoutes(api)

	return ginRouter
}
