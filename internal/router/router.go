package router

import (
	"time"

	"github.com/anonto42/pulsegram/backend/internal/cache"
	"github.com/anonto42/pulsegram/backend/internal/chat"
	"github.com/anonto42/pulsegram/backend/internal/feed"
	"github.com/anonto42/pulsegram/backend/internal/handlers"
	"github.com/anonto42/pulsegram/backend/internal/metrics"
	"github.com/anonto42/pulsegram/backend/internal/middleware"
	"github.com/anonto42/pulsegram/backend/internal/models"
	"github.com/anonto42/pulsegram/backend/internal/notify"
	"github.com/anonto42/pulsegram/backend/internal/realtime"
	"github.com/anonto42/pulsegram/backend/internal/repositories"
	"github.com/anonto42/pulsegram/backend/internal/storage"
	"github.com/anonto42/pulsegram/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const followCacheTTL = 5 * time.Minute

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *zap.Logger, m *metrics.Metrics) error {
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.Follow{},
		&models.Bookmark{},
		&models.Story{},
		&models.Chat{},
		&models.ChatParticipant{},
		&models.Message{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	bookmarkRepo := repositories.NewPostgresBookmarkRepository(pgdb)
	storyRepo := repositories.NewPostgresStoryRepository(pgdb)
	chatRepo := repositories.NewPostgresChatRepository(pgdb)
	messageRepo := repositories.NewPostgresMessageRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Shared infrastructure ---
	var followCache *cache.FollowingCache
	if redisClient != nil {
		followCache = cache.NewFollowingCache(redisClient, followCacheTTL)
	}

	var media storage.MediaStore
	if cfg.S3Bucket != "" {
		media, err = storage.NewS3Store(cfg.S3Region, cfg.S3Bucket)
	} else {
		media, err = storage.NewLocalStore(cfg.MediaDir)
	}
	if err != nil {
		return err
	}

	hub := realtime.NewHub(log, m)
	notifier := notify.NewNotifier(notificationRepo, userRepo, hub, log)

	// --- Services ---
	feedEngine := feed.NewEngine(postRepo, userRepo, followRepo, likeRepo, bookmarkRepo, followCache, log)
	storyEngine := feed.NewStoryEngine(storyRepo, userRepo, followRepo, followCache, media, nil, log)
	chatService := chat.NewService(chatRepo, messageRepo, userRepo, hub, log)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo, postRepo)
	userHandler.RegisterUserRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, likeRepo, commentRepo, bookmarkRepo, media)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(feedEngine)
	feedHandler.RegisterFeedRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, followCache, notifier)
	followHandler.RegisterFollowRoutes(api)

	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notifier)
	commentHandler.RegisterCommentRoutes(api)

	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notifier)
	likeHandler.RegisterLikeRoutes(api)

	bookmarkHandler := handlers.NewBookmarkHandler(bookmarkRepo, postRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)

	storyHandler := handlers.NewStoryHandler(storyEngine, media)
	storyHandler.RegisterStoryRoutes(api)

	chatHandler := handlers.NewChatHandler(chatService)
	chatHandler.RegisterChatRoutes(api)

	messageHandler := handlers.NewMessageHandler(chatService)
	messageHandler.RegisterMessageRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notifier)
	notificationHandler.RegisterNotificationRoutes(api)

	wsHandler := handlers.NewWSHandler(hub, chatService, chatRepo, cfg.JWTSecret, log)
	wsHandler.RegisterWSRoutes(e)

	log.Info("all routes configured")
	return nil
}
