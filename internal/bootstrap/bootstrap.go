package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/leemrnda21/hau-kiosk-registar/internal/app/controllers"
	appMigrations "github.com/leemrnda21/hau-kiosk-registar/internal/app/migrations"
	appRepos "github.com/leemrnda21/hau-kiosk-registar/internal/app/repositories"
	appRoutes "github.com/leemrnda21/hau-kiosk-registar/internal/app/routes"
	appServices "github.com/leemrnda21/hau-kiosk-registar/internal/app/services"
	"github.com/leemrnda21/hau-kiosk-registar/internal/config"
	"github.com/leemrnda21/hau-kiosk-registar/internal/db"
	appMiddleware "github.com/leemrnda21/hau-kiosk-registar/internal/middleware"
	pkgAuth "github.com/leemrnda21/hau-kiosk-registar/internal/pkg/auth"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/email"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/events"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/helpers"
	"github.com/leemrnda21/hau-kiosk-registar/internal/pkg/logger"
	"github.com/leemrnda21/hau-kiosk-registar/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       *appServices.AuthService
	RequestService    *appServices.RequestService
	StudentService    *appServices.StudentService
	AuditService      *appServices.AuditService
	OverviewService   *appServices.OverviewService
	AuthController    *appControllers.AuthController
	RequestController *appControllers.RequestController
	StudentController *appControllers.StudentController
	AuditController   *appControllers.AuditController
	EventsController  *appControllers.EventsController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Broker            *events.Broker
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin account.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(context.Background(), database.Pool, lgr); err != nil {
		// Do not block startup on the seed; the admin can be created later
		lgr.Error().Err(err).Msg("Failed to seed default admin, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	// One broker instance is shared by everything that publishes or streams
	deps.Broker = events.NewBroker(lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	emailSvc := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.User,
		Password:  cfg.SMTP.Password,
		FromName:  "HAU Registrar Portal",
		FromEmail: cfg.SMTP.From,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.AdminRepository,
		deps.Repos.PasswordResetTokenRepository,
		database,
		deps.JWTService,
		emailSvc,
		deps.Broker,
		cfg.App.BaseURL,
		lgr,
	)

	deps.RequestService = appServices.NewRequestService(
		deps.Repos.RequestRepository,
		deps.Repos.StudentRepository,
		deps.Repos.AuditLogRepository,
		database,
		deps.Broker,
		lgr,
	)

	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.AuditLogRepository,
		database,
		deps.Broker,
		lgr,
	)

	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditLogRepository)
	deps.OverviewService = appServices.NewOverviewService(deps.Repos.RequestRepository, deps.Repos.StudentRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.RequestController = appControllers.NewRequestController(deps.RequestService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService)
	deps.AuditController = appControllers.NewAuditController(deps.AuditService, deps.OverviewService)
	deps.EventsController = appControllers.NewEventsController(deps.Broker, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.RequestController,
		deps.StudentController,
		deps.AuditController,
		deps.EventsController,
		deps.AuthMiddleware,
	)

	return router
}
