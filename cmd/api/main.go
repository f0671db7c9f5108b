package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendora/internal/config"
	"vendora/internal/handler"
	"vendora/internal/middleware"
	"vendora/internal/notifier"
	"vendora/internal/outbox"
	vendora_redis "vendora/internal/redis"
	"vendora/internal/repository"
	"vendora/internal/services"
	"vendora/internal/storage"
	"vendora/pkg/database"
	"vendora/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Server.Environment)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := repository.InitSchema(db); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Repositories over the shared pool; transactional work goes through the
	// unit of work instead.
	uow := repository.NewUnitOfWork(db, cfg.Moderation.LockTimeout)
	draftRepo := repository.NewDraftRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	productRepo := repository.NewProductRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)

	clients := notifier.New(notifier.Config{
		CatalogBaseURL:      cfg.Services.CatalogBaseURL,
		SellerBaseURL:       cfg.Services.SellerBaseURL,
		NotificationBaseURL: cfg.Services.NotificationBaseURL,
		Timeout:             cfg.Services.ClientTimeout,
	})

	draftService := services.NewDraftService(uow, draftRepo, clients, appLogger)
	moderationService := services.NewModerationService(
		uow, draftRepo, queueRepo, productRepo,
		clients, clients,
		cfg.Moderation.CodeMaxAttempts, cfg.Moderation.EscalationAge,
		appLogger,
	)
	addressService := services.NewAddressService(uow, addressRepo, appLogger)

	var uploadService *services.UploadService
	if cfg.S3.Bucket != "" {
		s3Client, err := storage.NewClient(ctx, storage.S3Config{
			Region:     cfg.S3.Region,
			Bucket:     cfg.S3.Bucket,
			AccessKey:  cfg.S3.AccessKey,
			SecretKey:  cfg.S3.SecretKey,
			Endpoint:   cfg.S3.Endpoint,
			PublicBase: cfg.S3.PublicBase,
			PresignTTL: cfg.S3.PresignTTL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 client: %v", err)
		}
		uploadService = services.NewUploadService(s3Client)
	} else {
		uploadService = services.NewUploadService(nil)
		appLogger.Infof("S3 bucket not configured, presigned uploads disabled")
	}

	// Outbox relay: pending events fan out to Redis channels.
	redisClient := vendora_redis.NewClient(vendora_redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	publisher := vendora_redis.NewPublisher(redisClient)
	processor := outbox.NewProcessor(outboxRepo, publisher, appLogger,
		cfg.Outbox.BatchSize, cfg.Outbox.Interval, cfg.Outbox.MaxRetries)
	outbox.NewRunner(processor).Start(ctx)

	sweeper := services.NewEscalationSweeper(moderationService, cfg.Moderation.EscalationInterval, appLogger)
	sweeper.Start(ctx)

	draftHandler := handler.NewDraftHandler(draftService)
	moderationHandler := handler.NewModerationHandler(moderationService)
	addressHandler := handler.NewAddressHandler(addressService)
	uploadHandler := handler.NewUploadHandler(uploadService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(appLogger))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.Auth.JWTSecret))
	{
		drafts := api.Group("/drafts")
		{
			drafts.POST("", draftHandler.Create)
			drafts.GET("", draftHandler.List)
			drafts.GET("/:id", draftHandler.Get)
			drafts.PUT("/:id", draftHandler.Update)
			drafts.POST("/:id/submit", draftHandler.Submit)
			drafts.DELETE("/:id", draftHandler.Delete)
		}

		uploads := api.Group("/uploads")
		{
			uploads.POST("/presign", uploadHandler.Presign)
		}

		addresses := api.Group("/addresses")
		{
			addresses.POST("", addressHandler.Create)
			addresses.GET("", addressHandler.List)
			addresses.GET("/:id", addressHandler.Get)
			addresses.POST("/:id/default", addressHandler.SetDefault)
			addresses.DELETE("/:id", addressHandler.Delete)
		}

		moderation := api.Group("/moderation")
		moderation.Use(middleware.RequireModerator())
		{
			moderation.GET("/queue", moderationHandler.ListQueue)
			moderation.GET("/drafts/:id", moderationHandler.GetDraft)
			moderation.POST("/drafts/:id/assign", moderationHandler.Assign)
			moderation.POST("/drafts/:id/approve", moderationHandler.Approve)
			moderation.POST("/drafts/:id/reject", moderationHandler.Reject)
			moderation.POST("/drafts/:id/request-changes", moderationHandler.RequestChanges)
		}
	}

	appLogger.Infof("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(fmt.Sprintf(":%s", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
