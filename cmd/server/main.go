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
	"github.com/transitly/booking-backend/internal/config"
	"github.com/transitly/booking-backend/internal/database"
	"github.com/transitly/booking-backend/internal/handlers"
	"github.com/transitly/booking-backend/internal/services"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting Transitly Booking Backend")
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

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Repositories need *sqlx.DB for transaction support
	pgDB, ok := db.(*database.PostgresDB)
	if !ok {
		logger.Fatal("Failed to cast database connection to PostgresDB")
	}

	scheduleRepo := database.NewScheduleRepository(pgDB.DB)
	reservationRepo := database.NewSeatReservationRepository(pgDB.DB)
	bookingRepo := database.NewBookingRepository(pgDB.DB)

	logger.Info("Initializing services...")
	layoutService := services.NewSeatLayoutService()
	scheduleService := services.NewScheduleService(scheduleRepo)
	availabilityService := services.NewSeatAvailabilityService(
		reservationRepo, scheduleRepo, layoutService,
		cfg.Reservation.HoldTimeout, logger,
	)
	validationService := services.NewBookingValidationService(bookingRepo, scheduleRepo, logger)
	bookingService := services.NewBookingService(bookingRepo, availabilityService, logger)
	gatewayService := services.NewPaymentGatewayService(&cfg.Payment, logger)
	ticketService := services.NewTicketService(bookingRepo, logger)

	reaper := services.NewReaperService(availabilityService, cfg.Reservation.CleanupInterval, logger)
	if err := reaper.Start(); err != nil {
		logger.Fatalf("Failed to start reservation reaper: %v", err)
	}

	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService, scheduleService)
	bookingHandler := handlers.NewBookingHandler(bookingService, validationService, ticketService)
	paymentHandler := handlers.NewPaymentHandler(gatewayService, validationService, bookingService, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", healthCheckHandler(db))

	v1 := router.Group("/api/v1")
	{
		schedules := v1.Group("/schedules")
		{
			schedules.GET("/:id/availability", availabilityHandler.GetAvailability)
			schedules.GET("/:id/seat-layout", availabilityHandler.GetSeatLayout)
			schedules.POST("/:id/reserve-seats", availabilityHandler.ReserveSeats)
			schedules.DELETE("/:id/reserve-seats", availabilityHandler.ReleaseSeats)
		}
		v1.POST("/cleanup-expired-reservations", availabilityHandler.CleanupExpired)

		bookings := v1.Group("/bookings")
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.POST("/round-trip", bookingHandler.CreateRoundTripBooking)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
			bookings.GET("/:id/ticket", bookingHandler.GetTicket)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/intent", paymentHandler.CreatePaymentIntent)
			payments.POST("/webhook", paymentHandler.Webhook)
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
	reaper.Stop()

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

		c.Next()

		logger.WithFields(logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
		}).Info("HTTP request")
	}
}

// healthCheckHandler reports service and database health
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": version,
		})
	}
}
