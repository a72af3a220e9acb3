package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dmcalister/gridiron/internal/api"
	"github.com/dmcalister/gridiron/internal/api/middleware"
	"github.com/dmcalister/gridiron/internal/providers"
	"github.com/dmcalister/gridiron/internal/services"
	"github.com/dmcalister/gridiron/pkg/config"
	"github.com/dmcalister/gridiron/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cacheService := services.NewCacheService(redisClient)
	liveHub := services.NewLiveHub()
	go liveHub.Run()

	var smsService services.SMSService
	if cfg.SMSProvider == "twilio" {
		rateLimiter := services.NewSMSRateLimiter(cfg.SMSPerHourLimit, time.Hour)
		smsService = services.NewTwilioSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, rateLimiter)
	} else {
		smsService = services.NewMockSMSService()
	}
	notifier := services.NewNotifier(smsService)

	// Stats provider
	statsClient := providers.NewSportsfeedClient(
		cfg.StatsFeedBaseURL,
		cfg.StatsFeedAPIKey,
		cfg.StatsFeedRateLimit,
		cfg.ExternalAPITimeout,
		cacheService,
		logrus.StandardLogger(),
	)

	// Background jobs
	waiverRunner := services.NewWaiverRunner(db, cacheService, liveHub, notifier, logrus.StandardLogger(), cfg.WaiverCronSpec)

	syncInterval, err := time.ParseDuration(cfg.StatsSyncInterval)
	if err != nil {
		logrus.Warnf("Invalid sync interval, using default 2h: %v", err)
		syncInterval = 2 * time.Hour
	}
	statsSync := services.NewStatsSyncService(db, cacheService, statsClient, liveHub, logrus.StandardLogger(), syncInterval)

	if cfg.EnableBackgroundJobs {
		if err := waiverRunner.Start(); err != nil {
			logrus.Errorf("Failed to start waiver runner: %v", err)
		}
		defer waiverRunner.Stop()

		if err := statsSync.Start(); err != nil {
			logrus.Errorf("Failed to start stats sync: %v", err)
		}
		defer statsSync.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Liveness probe at root level
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, liveHub, notifier, waiverRunner, cfg)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
