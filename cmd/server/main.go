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
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "staticshop-backend/docs"
	"staticshop-backend/internal/common/logging"
	"staticshop-backend/internal/common/middleware"
	"staticshop-backend/internal/config"
	adminhttp "staticshop-backend/internal/features/admin/delivery/http"
	adminservice "staticshop-backend/internal/features/admin/service"
	identityhttp "staticshop-backend/internal/features/identity/provider/http"
	profilehttp "staticshop-backend/internal/features/profile/delivery/http"
	"staticshop-backend/internal/features/profile/events"
	profilepostgres "staticshop-backend/internal/features/profile/repository/postgres"
	profileredis "staticshop-backend/internal/features/profile/repository/redis"
	profileservice "staticshop-backend/internal/features/profile/service"
	"staticshop-backend/internal/platform/db"
	natsplatform "staticshop-backend/internal/platform/nats"
	redisplatform "staticshop-backend/internal/platform/redis"
)

// @title StaticShop Identity & Role Backend
// @version 1.0
// @description Role-authorization and user-state lifecycle service for the StaticShop storefront.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Debug)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backing stores.
	database, err := db.Open(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer database.Close()

	if err := db.Migrate(ctx, database); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	redisClient, err := redisplatform.Open(ctx,
		fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	natsConn, err := natsplatform.Connect(cfg.Nats.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("nats connection failed")
	}
	defer natsConn.Close()

	// Collaborators and services.
	identityProvider := identityhttp.NewClient(cfg.Identity.BaseURL, cfg.Identity.APIToken)
	profileRepo := profilepostgres.NewProfileRepository(database)
	statusMirror := profileredis.NewStatusMirror(redisClient.Client)

	provisioner := profileservice.NewProvisioner(profileRepo, logger)
	profileSvc := profileservice.NewProfileService(profileRepo, identityProvider, provisioner, logger)
	adminSvc := adminservice.NewAdminService(identityProvider, profileRepo, statusMirror,
		adminservice.Config{
			ProtectSelfDemotion: cfg.Admin.ProtectSelfDemotion,
			PageSize:            cfg.Identity.PageSize,
		}, logger)

	subscriber := events.NewSubscriber(natsConn, provisioner, cfg.Nats.CreatedSubject, cfg.Nats.Queue, logger)
	sub, err := subscriber.Start()
	if err != nil {
		logger.Fatal().Err(err).Msg("identity event subscription failed")
	}
	defer func() { _ = sub.Unsubscribe() }()

	// HTTP surface.
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.Use(middleware.BearerAuth([]byte(cfg.Auth.JWTSecret)))

	adminhttp.NewAdminHandler(adminSvc, logger).RegisterRoutes(api)
	profilehttp.NewProfileHandler(profileSvc, logger).RegisterRoutes(api)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server started")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("stopped")
}
