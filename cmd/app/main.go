package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "wishmanager-backend/docs"
	"wishmanager-backend/internal/common/config"
	"wishmanager-backend/internal/common/logger"
	"wishmanager-backend/internal/common/middleware"
	authhttp "wishmanager-backend/internal/features/auth/delivery/http"
	authservice "wishmanager-backend/internal/features/auth/service"
	userhttp "wishmanager-backend/internal/features/user/delivery/http"
	userrepo "wishmanager-backend/internal/features/user/repository"
	userpg "wishmanager-backend/internal/features/user/repository/postgres"
	userredis "wishmanager-backend/internal/features/user/repository/redis"
	userservice "wishmanager-backend/internal/features/user/service"
	wishhttp "wishmanager-backend/internal/features/wish/delivery/http"
	wishrepo "wishmanager-backend/internal/features/wish/repository"
	wishpg "wishmanager-backend/internal/features/wish/repository/postgres"
	wishredis "wishmanager-backend/internal/features/wish/repository/redis"
	wishservice "wishmanager-backend/internal/features/wish/service"
	wishlisthttp "wishmanager-backend/internal/features/wishlist/delivery/http"
	wishlistrepo "wishmanager-backend/internal/features/wishlist/repository"
	wishlistpg "wishmanager-backend/internal/features/wishlist/repository/postgres"
	wishlistredis "wishmanager-backend/internal/features/wishlist/repository/redis"
	wishlistservice "wishmanager-backend/internal/features/wishlist/service"
	"wishmanager-backend/internal/platform/postgres"
	"wishmanager-backend/internal/platform/redis"
	"wishmanager-backend/internal/service/notifications"
)

// @title           WishManager API
// @version         1.0
// @description     Backend for shared wishlists: create lists, invite friends and book gifts without spoiling the surprise.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token issued by /auth/telegram or /auth/google

// @tag.name auth
// @tag.description Login endpoints

// @tag.name users
// @tag.description User profiles

// @tag.name wishlists
// @tag.description Wishlist and membership management

// @tag.name wishes
// @tag.description Wishes and their claim state

func main() {
	cfg := config.Load()
	logger.Init("wishmanager-backend", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Str("storage", cfg.Storage).
		Msg("Starting WishManager backend")

	var (
		userRepository     userrepo.UserRepository
		wishlistRepository wishlistrepo.WishlistRepository
		wishRepository     wishrepo.WishRepository
		ready              func(context.Context) error
		closeStore         func()
	)

	switch cfg.Storage {
	case "postgres":
		client, err := postgres.NewClient(context.Background(), cfg.Postgres.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to postgres")
		}
		if err := client.Migrate(cfg.Postgres.MigrationsPath); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		userRepository = userpg.NewUserRepository(client.GetDB())
		wishlistRepository = wishlistpg.NewWishlistRepository(client.GetDB())
		wishRepository = wishpg.NewWishRepository(client.GetDB())
		ready = client.HealthCheck
		closeStore = func() { client.Close() }
	case "redis":
		client, err := redis.Open(context.Background(),
			cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to redis")
		}
		userRepository = userredis.NewUserRepository(client)
		wishlistRepository = wishlistredis.NewWishlistRepository(client)
		wishRepository = wishredis.NewWishRepository(client)
		ready = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		closeStore = func() { client.Close() }
	default:
		logger.Fatal().Str("storage", cfg.Storage).Msg("Unknown storage backend")
	}
	defer closeStore()

	logger.Info().Msg("Entity store connected")

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telegram bot")
	}
	logger.Info().Str("bot", bot.Self.UserName).Msg("Telegram bot authorized")

	notifier := notifications.NewService(bot, userRepository, wishlistRepository, cfg.Telegram.WebAppURL)

	userSvc := userservice.NewUserService(userRepository)
	wishlistSvc := wishlistservice.NewWishlistService(wishlistRepository, wishRepository, userSvc, notifier)
	wishSvc := wishservice.NewWishService(wishRepository, wishlistSvc, notifier)
	authSvc := authservice.NewAuthService(userSvc,
		cfg.Telegram.BotToken, cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)

	logger.Info().Msg("Services initialized")

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "Accept"}
	router.Use(cors.New(corsConfig))

	v1 := router.Group("/api/v1")
	authhttp.NewAuthHandler(authSvc).RegisterRoutes(v1)

	authorized := v1.Group("")
	authorized.Use(middleware.Auth(cfg.Auth.JWTSecret))
	userhttp.NewUserHandler(userSvc).RegisterRoutes(authorized)
	wishlisthttp.NewWishlistHandler(wishlistSvc).RegisterRoutes(authorized)
	wishhttp.NewWishHandler(wishSvc).RegisterRoutes(authorized)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "wishmanager-backend",
		})
	})
	router.GET("/live", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := ready(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	logger.Info().Msg("Routes configured")

	botCtx, stopBot := context.WithCancel(context.Background())
	go notifier.Run(botCtx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")
	stopBot()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}
