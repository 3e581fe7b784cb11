package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"launchpad/client-portal/client-portal-backend/internal/apiclient"
	"launchpad/client-portal/client-portal-backend/internal/auth"
	"launchpad/client-portal/client-portal-backend/internal/config"
	"launchpad/client-portal/client-portal-backend/internal/dashboard"
	"launchpad/client-portal/client-portal-backend/internal/export"
	"launchpad/client-portal/client-portal-backend/internal/manifest"
	"launchpad/client-portal/client-portal-backend/internal/metrics"
	"launchpad/client-portal/client-portal-backend/internal/onboarding"
	"launchpad/client-portal/client-portal-backend/internal/plans"
	"launchpad/client-portal/client-portal-backend/internal/settings"
	"launchpad/client-portal/client-portal-backend/pkg/storage"

	wshub "launchpad/client-portal/client-portal-backend/internal/notifications/websocket"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Load .env if present, then configuration
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// Connect to database. GORM handles entity CRUD, sqlx the aggregate
	// queries.
	dbURL := cfg.Database.GetDatabaseURL()

	gormDB, err := gorm.Open(postgres.Open(dbURL), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	sqlxDB, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer sqlxDB.Close()

	// Migrations
	authRepo := auth.NewGormRepository(gormDB)
	onboardingRepo := onboarding.NewGormRepository(gormDB)
	manifestRepo := manifest.NewGormRepository(gormDB)
	settingsRepo := settings.NewGormRepository(gormDB)
	metricsRepo := metrics.NewPostgresRepository(sqlxDB)
	for _, migrate := range []func() error{authRepo.Migrate, onboardingRepo.Migrate, manifestRepo.Migrate, settingsRepo.Migrate, metricsRepo.Migrate} {
		if err := migrate(); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// WebSocket hub for live progress updates
	hub := wshub.NewManager(logger)
	defer hub.Close()

	// Supabase mirror for context documents
	mirror, err := storage.NewSupabaseClient(cfg.Supabase)
	if err != nil {
		logger.Fatal("Failed to create supabase client", zap.Error(err))
	}

	// Services
	authService := auth.NewService(authRepo, cfg.Security, logger)
	onboardingService := onboarding.NewService(onboardingRepo, hub, cfg.Onboarding.FinalizeThresholdPercent, logger)
	metricsService := metrics.NewService(metricsRepo, logger)
	manifestService := manifest.NewService(manifestRepo, mirror, logger)
	settingsService := settings.NewService(settingsRepo, logger)

	// Upstream API client and dashboard aggregation
	client, err := apiclient.NewClient(cfg.API, logger)
	if err != nil {
		logger.Fatal("Failed to create API client", zap.Error(err))
	}

	aggregator := dashboard.NewAggregator(client, cfg.Dashboard.CacheTTL, logger)
	scheduler, err := dashboard.NewScheduler(aggregator, cfg.Dashboard.RefreshSchedule, logger)
	if err != nil {
		logger.Fatal("Failed to create dashboard scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	authHandler := auth.NewHandler(authService, logger)
	onboardingHandler := onboarding.NewHandler(onboardingService, cfg.Onboarding.FinalizeThresholdPercent, logger)
	metricsHandler := metrics.NewHandler(metricsService, export.NewSessionExporter(), logger)
	manifestHandler := manifest.NewHandler(manifestService, logger)
	dashboardHandler := dashboard.NewHandler(aggregator, logger)
	plansHandler := plans.NewHandler()
	settingsHandler := settings.NewHandler(settingsService, logger)

	// Setup Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, authService)
		plansHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
		metricsHandler.RegisterRoutes(api)
		manifestHandler.RegisterRoutes(api)

		protected := api.Group("")
		protected.Use(auth.RequireAuth(authService))
		{
			onboardingHandler.RegisterRoutes(protected)
			settingsHandler.RegisterRoutes(protected)
		}
	}

	// Live progress stream
	router.GET("/ws/progress", func(c *gin.Context) {
		if _, err := hub.HandleConnection(c.Writer, c.Request); err != nil {
			logger.Error("Failed to accept websocket connection", zap.Error(err))
		}
	})

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
