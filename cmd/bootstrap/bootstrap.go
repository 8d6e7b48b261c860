package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-clinic-booking/config"
	deliveryHttp "go-clinic-booking/internal/delivery/http"
	"go-clinic-booking/internal/delivery/http/handler"
	"go-clinic-booking/internal/delivery/http/middleware"
	"go-clinic-booking/internal/domain/entity"
	"go-clinic-booking/internal/infrastructure/cache"
	"go-clinic-booking/internal/infrastructure/database"
	"go-clinic-booking/internal/repository"
	"go-clinic-booking/internal/service"
	"go-clinic-booking/internal/usecase"
	"go-clinic-booking/pkg/jwt"
	"go-clinic-booking/pkg/metrics"
	"go-clinic-booking/pkg/uhid"
	"go-clinic-booking/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Registry    *prometheus.Registry
	Metrics     *metrics.Collector

	summarySync  *service.SummarySyncService
	auditService service.AuditService
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app, err := Connect()
	if err != nil {
		return nil, err
	}

	if app.Config.DB.AutoMigrate {
		if err := Migrate(app.Config, func(m *database.Migrator) error { return m.Up() }); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Rebuild the Redis mirror before serving so today's reads are warm
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := app.ResyncSummaries(ctx, app.Config.Ledger.ResyncWindowDays); err != nil {
		logrus.Warnf("Failed to rebuild summary mirror, reads will fall back to Postgres: %+v", err)
	}

	app.Server = app.initializeServer()
	return app, nil
}

// Connect loads configuration and opens Postgres and Redis. It is shared by
// the server and the maintenance commands.
func Connect() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	app.Registry = prometheus.NewRegistry()
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = metrics.NewCollector(cfg.Metrics.Namespace, app.Registry)

	app.summarySync = service.NewSummarySyncService(
		repository.NewDailySummaryRepository(db),
		redisClient,
		cfg.Ledger.MirrorTTLDays,
		logrus.StandardLogger(),
	)
	app.auditService = service.NewAuditService(logrus.StandardLogger(), repository.NewAuditLogRepository(db))

	return app, nil
}

// Migrate runs fn against the embedded migrations without opening gorm or Redis
func Migrate(cfg *config.Config, fn func(*database.Migrator) error) error {
	migrator, err := database.NewMigrator(cfg.DB)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return fn(migrator)
}

// ResyncSummaries copies ledger rows from the last days into Redis
func (app *App) ResyncSummaries(ctx context.Context, days int) (int, error) {
	if days < 1 {
		days = 1
	}
	since := entity.DateOnly(time.Now().In(app.Config.App.Location())).AddDate(0, 0, -(days - 1))

	synced, err := app.summarySync.SyncOnStartup(ctx, since)
	if err != nil {
		return synced, err
	}
	logrus.Infof("Mirrored %d daily summaries since %s", synced, since.Format("2006-01-02"))
	_ = app.auditService.LogCreate(ctx, nil, entity.AuditActionSummaryResync, "daily_summary", since.Format("2006-01-02"), map[string]int{"synced": synced})
	return synced, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func (app *App) initializeServer() *http.Server {
	cfg := app.Config
	db := app.DB
	loc := cfg.App.Location()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	formatter := uhid.NewFormatter(cfg.Booking.UHIDPrefix, cfg.Booking.UHIDWidth)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	doctorProfileRepo := repository.NewDoctorProfileRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	summaryRepo := repository.NewDailySummaryRepository(db)
	sessions := cache.NewSessionStore(app.RedisClient)

	log := logrus.StandardLogger()

	// Initialize services
	auditService := app.auditService
	allocator := service.NewSequenceAllocator(sequenceRepo, log, app.Metrics)
	ledger := service.NewDailyLedgerService(summaryRepo, app.summarySync, cfg.Ledger, log, app.Metrics)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, userRepo, roleRepo, auditService, jwtService, sessions)
	doctorProfileUsecase := usecase.NewDoctorProfileUsecase(log, userRepo, doctorProfileRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)
	bookingUsecase := usecase.NewPatientBookingUsecase(
		log, patientRepo, appointmentRepo, doctorProfileRepo,
		allocator, formatter, ledger, auditService, app.Metrics, loc,
	)
	searchUsecase := usecase.NewPatientSearchUsecase(log, patientRepo, formatter, app.Metrics)
	summaryUsecase := usecase.NewDailySummaryUsecase(log, summaryRepo, appointmentRepo, app.summarySync, loc)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	bookingHandler := handler.NewBookingHandler(bookingUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(searchUsecase)
	summaryHandler := handler.NewSummaryHandler(summaryUsecase)
	doctorHandler := handler.NewDoctorHandler(doctorProfileUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)

	var (
		metricsMiddleware *middleware.MetricsMiddleware
		metricsHandler    http.Handler
	)
	if cfg.Metrics.Enabled {
		metricsMiddleware = middleware.NewMetricsMiddleware(app.Metrics)
		metricsHandler = metrics.MetricsHandler(app.Registry)
	}

	router := deliveryHttp.NewRouter(
		authHandler, bookingHandler, patientHandler, summaryHandler, doctorHandler, auditLogHandler,
		authMiddleware, corsMiddleware, metricsMiddleware, metricsHandler,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
