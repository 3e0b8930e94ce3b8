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
	appAuth "github.com/choirdinated/backend/internal/app/auth"
	appControllers "github.com/choirdinated/backend/internal/app/controllers"
	appMigrations "github.com/choirdinated/backend/internal/app/migrations"
	appRepos "github.com/choirdinated/backend/internal/app/repositories"
	appRoutes "github.com/choirdinated/backend/internal/app/routes"
	appServices "github.com/choirdinated/backend/internal/app/services"
	"github.com/choirdinated/backend/internal/config"
	"github.com/choirdinated/backend/internal/db"
	appMiddleware "github.com/choirdinated/backend/internal/middleware"
	pkgAuth "github.com/choirdinated/backend/internal/pkg/auth"
	"github.com/choirdinated/backend/internal/pkg/brreg"
	"github.com/choirdinated/backend/internal/pkg/helpers"
	"github.com/choirdinated/backend/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService        *appServices.AuthService
	ChoirService       *appServices.ChoirService
	MemberService      *appServices.MemberService
	EventService       *appServices.EventService
	LovService         *appServices.ListOfValueService
	ImportService      *appServices.ImportService
	RegistryService    *appServices.RegistryService
	AuthController     *appControllers.AuthController
	ChoirController    *appControllers.ChoirController
	MemberController   *appControllers.MemberController
	EventController    *appControllers.EventController
	LovController      *appControllers.ListOfValueController
	ImportController   *appControllers.ImportController
	RegistryController *appControllers.RegistryController
	AuthMiddleware     *appMiddleware.AuthMiddleware
	Repos              *appRepos.Repositories
	JWTService         *pkgAuth.JWTService
	AuthzService       *appAuth.AuthorizationService
	Logger             zerolog.Logger
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

// SetupDatabase establishes the database connection and runs migrations.
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

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.MemberRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	registryClient := brreg.NewClient(cfg.Registry.BaseURL,
		helpers.ParseDuration(cfg.Registry.Timeout, 10*time.Second))

	deps.AuthService = appServices.NewAuthService(
		database,
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.Repos.MemberRepository,
		deps.Repos.ChoirRepository,
		deps.JWTService,
	)
	deps.ChoirService = appServices.NewChoirService(
		database,
		deps.Repos.ChoirRepository,
		deps.Repos.HolidayRepository,
		deps.Repos.ListOfValueRepository,
		deps.Repos.MemberRepository,
	)
	deps.MemberService = appServices.NewMemberService(
		database,
		deps.Repos.MemberRepository,
		deps.Repos.UserRepository,
		deps.Repos.ListOfValueRepository,
	)
	deps.EventService = appServices.NewEventService(
		deps.Repos.EventRepository,
		deps.Repos.ChoirRepository,
		deps.Repos.HolidayRepository,
		deps.Repos.MemberRepository,
	)
	deps.LovService = appServices.NewListOfValueService(database, deps.Repos.ListOfValueRepository)
	deps.ImportService = appServices.NewImportService(
		database,
		deps.Repos.UserRepository,
		deps.Repos.MemberRepository,
		deps.Repos.ListOfValueRepository,
	)
	deps.RegistryService = appServices.NewRegistryService(registryClient)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.AuthzService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.ChoirController = appControllers.NewChoirController(deps.ChoirService)
	deps.MemberController = appControllers.NewMemberController(deps.MemberService)
	deps.EventController = appControllers.NewEventController(deps.EventService)
	deps.LovController = appControllers.NewListOfValueController(deps.LovService)
	deps.ImportController = appControllers.NewImportController(deps.ImportService)
	deps.RegistryController = appControllers.NewRegistryController(deps.RegistryService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ChoirController,
		deps.MemberController,
		deps.EventController,
		deps.LovController,
		deps.ImportController,
		deps.RegistryController,
		deps.AuthMiddleware,
	)

	return router
}
