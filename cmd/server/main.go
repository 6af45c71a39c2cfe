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
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/swifttransit/busline-backend/internal/config"
	"github.com/swifttransit/busline-backend/internal/database"
	"github.com/swifttransit/busline-backend/internal/handlers"
	"github.com/swifttransit/busline-backend/internal/middleware"
	"github.com/swifttransit/busline-backend/internal/services"
	"github.com/swifttransit/busline-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Busline Scheduling Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	busRepo := database.NewBusRepository(db)
	routeRepo := database.NewRouteRepository(db)
	driverRepo := database.NewDriverRepository(db)
	tripRepo := database.NewTripRepository(db)
	seatRepo := database.NewSeatReservationRepository(db)

	// Services
	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	allocator := services.NewSeatAllocator()
	checker := services.NewAvailabilityChecker(tripRepo)
	scheduler := services.NewTripScheduler(db, tripRepo, seatRepo, busRepo, routeRepo, driverRepo, allocator, logger)
	pricer := services.BasePricePricer(tripRepo, "XAF")
	logger.Info("Services initialized")

	// Handlers
	tripHandler := handlers.NewTripHandler(scheduler, tripRepo, seatRepo, pricer, logger)
	busHandler := handlers.NewBusHandler(busRepo, logger)
	routeHandler := handlers.NewRouteHandler(routeRepo, logger)
	driverHandler := handlers.NewDriverHandler(driverRepo, logger)
	availabilityHandler := handlers.NewAvailabilityHandler(checker, busRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(jwtService))
	{
		trips := v1.Group("/trips")
		{
			trips.POST("", tripHandler.CreateTrip)
			trips.GET("", tripHandler.ListTrips)
			trips.GET("/:id", tripHandler.GetTrip)
			trips.PATCH("/:id", tripHandler.UpdateTrip)
			trips.PATCH("/:id/status", tripHandler.SetTripStatus)
			trips.DELETE("/:id", tripHandler.DeleteTrip)
		}

		buses := v1.Group("/buses")
		{
			buses.POST("", busHandler.CreateBus)
			buses.GET("", busHandler.ListBuses)
			buses.GET("/:id", busHandler.GetBus)
			buses.PATCH("/:id", busHandler.UpdateBus)
			buses.GET("/:id/availability", availabilityHandler.CheckBusAvailability)
		}

		routes := v1.Group("/routes")
		{
			routes.POST("", routeHandler.CreateRoute)
			routes.GET("", routeHandler.ListRoutes)
			routes.GET("/:id", routeHandler.GetRoute)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("", driverHandler.CreateDriver)
			drivers.GET("", driverHandler.ListDrivers)
			drivers.GET("/:id", driverHandler.GetDriver)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

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

// healthCheckHandler reports process and database health
func healthCheckHandler(db *sqlx.DB) gin.HandlerFunc {
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
