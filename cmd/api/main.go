package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/shininglight/church-api/api/swagger"
	"github.com/shininglight/church-api/internal/handler"
	"github.com/shininglight/church-api/internal/middleware"
	"github.com/shininglight/church-api/internal/models"
	"github.com/shininglight/church-api/internal/repository"
	"github.com/shininglight/church-api/internal/service"
	"github.com/shininglight/church-api/pkg/cache"
	"github.com/shininglight/church-api/pkg/config"
	"github.com/shininglight/church-api/pkg/database"
	"github.com/shininglight/church-api/pkg/logger"
	corsmiddleware "github.com/shininglight/church-api/pkg/middleware/cors"
	reqidmiddleware "github.com/shininglight/church-api/pkg/middleware/requestid"
	"github.com/shininglight/church-api/pkg/storage"
)

// @title Shining Light Church API
// @version 1.0.0
// @description Content management backend: events, news, media gallery and volunteer applications
// @BasePath /api/v1
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, list cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close()
		}
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir, cfg.Uploads.PublicBaseURL)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir, "")
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	exportSigner := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	eventRepo := repository.NewEventRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	userRepo := repository.NewUserRepository(db)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	listCache := service.NewInstrumentedCache(cacheRepo, metricsSvc)

	eventSvc := service.NewEventService(eventRepo, listCache, cfg.Cache.TTL, validate, logr)
	newsSvc := service.NewNewsService(newsRepo, listCache, cfg.Cache.TTL, validate, logr)
	mediaSvc := service.NewMediaService(mediaRepo, uploadStore, listCache, cfg.Cache.TTL, validate, logr)
	applicationSvc := service.NewApplicationService(applicationRepo, listCache, cfg.Cache.TTL, validate, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	exportSvc := service.NewExportService(applicationRepo, exportStore, exportSigner, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	newsHandler := handler.NewNewsHandler(newsSvc)
	mediaHandler := handler.NewMediaHandler(mediaSvc, handler.UploadLimits{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})
	applicationHandler := handler.NewApplicationHandler(applicationSvc, exportSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.Static("/media", cfg.Uploads.StorageDir)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/events", eventHandler.ListUpcoming)
		api.GET("/news", newsHandler.List)
		api.GET("/media", mediaHandler.List)
		api.POST("/applications", applicationHandler.Submit)
		api.POST("/auth/login", authHandler.Login)
		api.GET("/exports/download", exportHandler.Download)

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.POST("/auth/logout", authHandler.Logout)
			authed.GET("/auth/me", authHandler.Me)

			admin := authed.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/events", eventHandler.List)
				admin.GET("/events/:id", eventHandler.Get)
				admin.POST("/events", eventHandler.Create)
				admin.PUT("/events/:id", eventHandler.Update)
				admin.DELETE("/events/:id", eventHandler.Delete)

				admin.GET("/news", newsHandler.List)
				admin.POST("/news", newsHandler.Create)
				admin.PUT("/news/:id", newsHandler.Update)
				admin.DELETE("/news/:id", newsHandler.Delete)

				admin.POST("/media", mediaHandler.Create)
				admin.DELETE("/media/:id", mediaHandler.Delete)

				admin.GET("/applications", applicationHandler.List)
				admin.DELETE("/applications/:id", applicationHandler.Delete)
				admin.GET("/applications/export", applicationHandler.Export)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
