package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tutorlink.backend/internal/config"
	domainRepos "tutorlink.backend/internal/domain/repositories"
	"tutorlink.backend/internal/infrastructure/datasources/postgres"
	"tutorlink.backend/internal/infrastructure/events"
	"tutorlink.backend/internal/infrastructure/jobs"
	"tutorlink.backend/internal/infrastructure/metrics"
	"tutorlink.backend/internal/infrastructure/models"
	"tutorlink.backend/internal/infrastructure/repositories"
	"tutorlink.backend/internal/infrastructure/storage"
	"tutorlink.backend/internal/interfaces/http/handlers"
	"tutorlink.backend/internal/interfaces/http/middleware"
	"tutorlink.backend/internal/usecases"
	"tutorlink.backend/pkg/jwt"
	"tutorlink.backend/pkg/logger"
	"tutorlink.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		conn, err := postgres.NewConnection(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.OpenGorm(conn)
	}
	newDocumentStore = storage.New
	newPendingStore  = func(keyHex string) (domainRepos.PendingRegistrationStore, error) {
		store, err := repositories.NewPendingRegistrationStore(keyHex)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	runServer = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Redis backs idempotency keys, pending registrations and status events
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()
	logger.Info(context.Background(), "Connected to PostgreSQL via GORM")

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info(context.Background(), "Database schema migrated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)
	requestRepo := repositories.NewVerificationRequestRepository(db)
	documentRepo := repositories.NewVerificationDocumentRepository(db)
	referenceRepo := repositories.NewVerificationReferenceRepository(db)
	attemptRepo := repositories.NewVerificationTestAttemptRepository(db)
	availabilityRepo := repositories.NewAvailabilityRepository(db)
	uow := repositories.NewUnitOfWork(db)

	documentStore, err := newDocumentStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize document storage: %w", err)
	}

	pendingStore, err := newPendingStore(cfg.Security.PendingRegistrationKey)
	if err != nil {
		return fmt.Errorf("failed to initialize pending registration store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	// Initialize usecases
	authUsecase := usecases.NewAuthUsecase(uow, userRepo, profileRepo, pendingStore, jwtService)
	profileUsecase := usecases.NewProfileUsecase(profileRepo)
	pendingUsecase := usecases.NewPendingRegistrationUsecase(pendingStore, userRepo, cfg.Verification.PendingRegistrationTTL)
	availabilityUsecase := usecases.NewAvailabilityUsecase(availabilityRepo, profileRepo)
	verificationUsecase := usecases.NewVerificationUsecase(
		uow, userRepo, profileRepo, requestRepo, documentRepo, referenceRepo, attemptRepo,
		documentStore, events.NewRedisStatusPublisher(), appMetrics,
	)
	verificationUsecase.SetUploadLimit(cfg.Verification.UploadMaxBytes)

	// Start background jobs
	sweepJob := jobs.NewReVerificationSweepJob(verificationUsecase, cfg.Verification.SweepInterval)
	go sweepJob.Start(ctx)
	defer sweepJob.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(appMetrics))

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, registry)
	if local, ok := documentStore.(*storage.LocalStore); ok {
		r.Static("/files", local.Root())
	}
	registerAPIV1Routes(r, routeDeps{
		authHandler:              handlers.NewAuthHandler(authUsecase),
		adminHandler:             handlers.NewAdminHandler(authUsecase),
		profileHandler:           handlers.NewProfileHandler(profileUsecase),
		verificationHandler:      handlers.NewVerificationHandler(verificationUsecase),
		adminVerificationHandler: handlers.NewAdminVerificationHandler(verificationUsecase),
		registrationHandler:      handlers.NewRegistrationHandler(pendingUsecase),
		availabilityHandler:      handlers.NewAvailabilityHandler(availabilityUsecase),
		eventsHandler:            handlers.NewEventsHandler(events.NewRedisStatusSubscriber(), cfg.Verification.EventKeepAlive),
		authMiddleware:           middleware.AuthMiddleware(jwtService),
		idempotencyMiddleware:    middleware.IdempotencyMiddleware(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server")
		sweepJob.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(context.Background(), "Server shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(context.Background(), "TutorLink backend starting",
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
