package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/audily-music-platform/internal/admin"
	"github.com/audily-music-platform/internal/auth"
	"github.com/audily-music-platform/internal/catalog"
	"github.com/audily-music-platform/internal/config"
	"github.com/audily-music-platform/internal/dashboard"
	"github.com/audily-music-platform/internal/playback"
	"github.com/audily-music-platform/internal/playlist"
	"github.com/audily-music-platform/internal/trending"
	"github.com/audily-music-platform/internal/upload"
	"github.com/audily-music-platform/internal/ws"
	"github.com/audily-music-platform/pkg/database"
	"github.com/audily-music-platform/pkg/events"
	"github.com/audily-music-platform/pkg/redis"
	"github.com/audily-music-platform/pkg/storage"
)

func main() {
	cfg := config.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.Env != "production" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewMySQL(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	sessions := redis.NewSessionStore(redisClient)
	cache := redis.NewCache(redisClient)

	kafkaClient := events.NewKafkaClient(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID)
	defer kafkaClient.Close()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize blob storage")
	}

	authService := auth.NewService(db, sessions, blobs, kafkaClient, cfg.JWTSecret, cfg.SessionTTL, logger)
	if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap admin account")
	}
	catalogService := catalog.NewService(db)
	uploadService := upload.NewService(db, blobs, kafkaClient, logger)
	playlistService := playlist.NewService(db)
	playbackService := playback.NewService(db, kafkaClient, logger)
	trendingService := trending.NewService(db, cache, logger)
	dashboardService := dashboard.NewService(db)
	adminService := admin.NewService(db, blobs, logger)

	authHandler := auth.NewHandler(authService)
	catalogHandler := catalog.NewHandler(catalogService)
	uploadHandler := upload.NewHandler(uploadService)
	playlistHandler := playlist.NewHandler(playlistService)
	playbackHandler := playback.NewHandler(playbackService)
	trendingHandler := trending.NewHandler(trendingService)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	adminHandler := admin.NewHandler(adminService)
	wsHandler := ws.NewHandler(kafkaClient, logger)

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(v1, cfg.JWTSecret)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(auth.Middleware(sessions, cfg.JWTSecret))
	{
		catalogHandler.RegisterRoutes(protected)
		uploadHandler.RegisterRoutes(protected)
		playlistHandler.RegisterRoutes(protected)
		playbackHandler.RegisterRoutes(protected)
		trendingHandler.RegisterRoutes(protected)
		dashboardHandler.RegisterRoutes(protected)

		protected.GET("/ws/plays", wsHandler.HandleWebSocket)
	}

	adminGroup := v1.Group("/admin")
	adminGroup.Use(auth.Middleware(sessions, cfg.JWTSecret), auth.AdminMiddleware())
	adminHandler.RegisterRoutes(adminGroup)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wsHandler.Start(ctx)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

func newBlobStore(cfg *config.Config) (storage.BlobStore, error) {
	if cfg.StorageBackend == "s3" {
		return storage.NewS3Store(context.Background(), storage.S3Options{
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocalStore(cfg.StorageDir)
}
