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
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wanderdesk/service-bookings/internal/application"
	"github.com/wanderdesk/service-bookings/internal/config"
	"github.com/wanderdesk/service-bookings/internal/database"
	"github.com/wanderdesk/service-bookings/internal/domain/booking"
	"github.com/wanderdesk/service-bookings/internal/events"
	"github.com/wanderdesk/service-bookings/internal/handler"
	"github.com/wanderdesk/service-bookings/internal/logger"
	"github.com/wanderdesk/service-bookings/internal/middleware"
	"github.com/wanderdesk/service-bookings/internal/notifier"
	"github.com/wanderdesk/service-bookings/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-bookings")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-bookings",
		zap.String("port", cfg.Port),
		zap.String("storage_backend", cfg.StorageBackend),
	)

	// Select the persistence backend
	var repo booking.Repository
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg.DatabaseDSN(), log)
		if err != nil {
			log.Fatal("failed to connect to database", zap.Error(err))
		}

		if cfg.AppEnv == "development" {
			if err := db.AutoMigrate(&booking.Booking{}); err != nil {
				log.Fatal("failed to run auto-migration", zap.Error(err))
			}
			log.Info("database migration completed (dev auto-migrate)")
		} else {
			if err := database.RunMigrations(cfg.DatabaseURL(), "migrations", log); err != nil {
				log.Fatal("failed to run migrations", zap.Error(err))
			}
		}

		repo = repository.NewGormBookingRepository(db)

	case config.BackendDocument:
		repo = repository.NewDocumentBookingRepository(cfg.DocumentPath)
		log.Info("using whole-document backend", zap.String("path", cfg.DocumentPath))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the subscriber hub and, when brokers are configured, the
	// cross-instance change relay.
	hub := notifier.NewHub(log)

	var changeNotifier application.Notifier = hub
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		origin := uuid.NewString()

		producer := events.NewProducer(brokers, cfg.KafkaTopic, origin, log)
		defer func() { _ = producer.Close() }()
		changeNotifier = events.NewRelayNotifier(hub, producer)

		consumer := events.NewChangeConsumer(brokers, cfg.KafkaGroupPrefix+origin, cfg.KafkaTopic, origin, hub, log)
		defer func() { _ = consumer.Close() }()

		go func() {
			log.Info("starting change relay consumer", zap.Strings("brokers", brokers))
			if err := consumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("change relay consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize application service
	bookingService := application.NewBookingService(repo, changeNotifier, log, cfg.MaxPageSize)

	// Setup Gin router
	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(bookingService, "service-bookings")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler := handler.NewBookingHandler(bookingService, cfg.DefaultPageSize)
	bookingHandler.RegisterRoutes(&router.RouterGroup)

	adminHandler := handler.NewAdminHandler(bookingService)
	adminHandler.RegisterRoutes(&router.RouterGroup, cfg.AdminAPIKey)

	liveHandler := handler.NewLiveHandler(hub, log)
	liveHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-bookings...")

	// Stop the relay consumer
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-bookings stopped")
}
