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
	"github.com/sirupsen/logrus"

	"github.com/medoffice/shift-scheduler-backend/internal/config"
	"github.com/medoffice/shift-scheduler-backend/internal/database"
	"github.com/medoffice/shift-scheduler-backend/internal/handlers"
	"github.com/medoffice/shift-scheduler-backend/internal/middleware"
	"github.com/medoffice/shift-scheduler-backend/internal/services"
	"github.com/medoffice/shift-scheduler-backend/pkg/jwt"
	"github.com/medoffice/shift-scheduler-backend/pkg/oracle"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting MedOffice Shift Scheduler Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize repositories
	staffRepo := database.NewStaffRepository(db)
	areaRepo := database.NewAreaRepository(db)
	shiftRepo := database.NewShiftRepository(db)
	timeOffRepo := database.NewTimeOffRepository(db)
	adminRepo := database.NewAdminUserRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	validatorService := services.NewValidatorService()
	historyService := services.NewHistoryService(shiftRepo, cfg.History.MaxEntries)
	scheduleService := services.NewScheduleService(
		shiftRepo, staffRepo, areaRepo, timeOffRepo,
		validatorService, historyService, logger,
	)
	coverageService := services.NewCoverageService(shiftRepo, staffRepo, areaRepo)
	timeOffService := services.NewTimeOffService(timeOffRepo, staffRepo)

	// Choose schedule generator
	var gateway oracle.Gateway
	if cfg.Oracle.Mode == "openai" {
		logger.Infof("Using OpenAI schedule generator (model %s)", cfg.Oracle.Model)
		gateway = oracle.NewOpenAIGateway(oracle.OpenAIConfig{
			APIURL:    cfg.Oracle.APIURL,
			APIKey:    cfg.Oracle.APIKey,
			Model:     cfg.Oracle.Model,
			Timeout:   cfg.Oracle.Timeout,
			MaxTokens: cfg.Oracle.MaxTokens,
		})
	} else {
		logger.Info("Using built-in rule-based schedule generator")
		gateway = oracle.NewRuleGateway()
	}

	draftService := services.NewDraftService(
		shiftRepo, staffRepo, areaRepo, timeOffRepo,
		validatorService, scheduleService, gateway, logger,
	)
	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(adminRepo, jwtService)
	staffHandler := handlers.NewStaffHandler(staffRepo)
	areaHandler := handlers.NewAreaHandler(areaRepo)
	shiftHandler := handlers.NewShiftHandler(scheduleService)
	coverageHandler := handlers.NewCoverageHandler(coverageService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, draftService)
	timeOffHandler := handlers.NewTimeOffHandler(timeOffService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Authentication routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Everything else requires a valid access token
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			// Staff roster
			protected.GET("/staff", staffHandler.List)
			protected.POST("/staff", staffHandler.Create)
			protected.GET("/staff/:id", staffHandler.Get)
			protected.PUT("/staff/:id", staffHandler.Update)
			protected.DELETE("/staff/:id", staffHandler.Delete)

			// Coverage areas
			protected.GET("/areas", areaHandler.List)
			protected.POST("/areas", areaHandler.Create)
			protected.GET("/areas/:id", areaHandler.Get)
			protected.PUT("/areas/:id", areaHandler.Update)
			protected.DELETE("/areas/:id", areaHandler.Delete)
			protected.GET("/areas/:id/coverage", coverageHandler.Get)

			// Coverage grid
			protected.POST("/coverage/batch", coverageHandler.Batch)

			// Shifts
			protected.GET("/shifts", shiftHandler.ListWeek)
			protected.POST("/shifts", shiftHandler.Create)
			protected.PUT("/shifts/:id", shiftHandler.Update)
			protected.DELETE("/shifts/:id", shiftHandler.Delete)

			// Draft workflow and history
			schedule := protected.Group("/schedule")
			{
				schedule.POST("/draft", scheduleHandler.GenerateDraft)
				schedule.GET("/draft", scheduleHandler.GetDraft)
				schedule.GET("/draft/coverage", scheduleHandler.PreviewCoverage)
				schedule.POST("/draft/apply", scheduleHandler.ApplyDraft)
				schedule.DELETE("/draft", scheduleHandler.DiscardDraft)
				schedule.POST("/undo", scheduleHandler.Undo)
				schedule.POST("/redo", scheduleHandler.Redo)
			}

			// Time-off requests
			protected.GET("/time-off", timeOffHandler.List)
			protected.POST("/time-off", timeOffHandler.Submit)
			protected.PUT("/time-off/:id/status", timeOffHandler.Decide)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // draft generation can take a while
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
		}

		entry := logger.WithFields(fields)
		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
