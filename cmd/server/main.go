package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/care-io/service-booking/internal/application"
	"github.com/care-io/service-booking/internal/config"
	bookingDomain "github.com/care-io/service-booking/internal/domain/booking"
	bookingEvents "github.com/care-io/service-booking/internal/events"
	"github.com/care-io/service-booking/internal/handler"
	"github.com/care-io/service-booking/internal/notify"
	"github.com/care-io/service-booking/internal/oauth"
	"github.com/care-io/service-booking/internal/repository"
	"github.com/care-io/service-booking/pkg/auth"
	"github.com/care-io/service-booking/pkg/database"
	"github.com/care-io/service-booking/pkg/health"
	"github.com/care-io/service-booking/pkg/kafka"
	"github.com/care-io/service-booking/pkg/logger"
	"github.com/care-io/service-booking/pkg/middleware"
)

const serviceName = "service-booking"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DBConfig.Host,
		Port:     cfg.DBConfig.Port,
		User:     cfg.DBConfig.User,
		Password: cfg.DBConfig.Password,
		DBName:   cfg.DBConfig.DBName,
		SSLMode:  cfg.DBConfig.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.UserModel{}, &repository.ServiceModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(dbConfig.DatabaseURL(), cfg.MigrationsDir, log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	bookingRepo := repository.NewGormBookingRepository(db)
	serviceRepo := repository.NewGormServiceRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	// Initialize notifiers
	notifiers := notify.Multi{notify.NewEventNotifier(kafkaProducer)}
	if cfg.SMTPConfig.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTPConfig, log))
		log.Info("email notifications enabled", zap.String("smtp_host", cfg.SMTPConfig.Host))
	}

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		serviceRepo,
		bookingDomain.NewValidator(cfg.Policy),
		bookingDomain.NewCostCalculator(cfg.Policy),
		notifiers,
		kafkaProducer,
		log,
	)
	catalogService := application.NewCatalogService(serviceRepo, log)
	userService := application.NewUserService(userRepo, jwtManager, log)
	userService.SetAdminEmails(cfg.AdminEmails)

	// Initialize and start payment event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.KafkaConfig.GroupPrefix + "booking-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Google sign-in is optional
	var google handler.GoogleAuthenticator
	if cfg.GoogleConfig.Enabled() {
		google = oauth.NewGoogleProvider(cfg.GoogleConfig)
		log.Info("google sign-in enabled")
	}

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins...))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register routes
	handler.NewAuthHandler(userService, google).RegisterRoutes(&router.RouterGroup)
	handler.NewUserHandler(userService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewCatalogHandler(catalogService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)
	handler.NewAdminBookingHandler(bookingService).RegisterRoutes(&router.RouterGroup, jwtManager)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	// Let in-flight booking notifications finish before the producer closes
	if err := bookingService.WaitForNotifications(shutdownCtx); err != nil {
		log.Warn("pending notifications abandoned", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
