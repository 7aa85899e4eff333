// Package bootstrap assembles the application: config, logging, database,
// migrations, seed data, services, controllers and the router.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	appAuth "github.com/edustack/portal/internal/app/auth"
	appControllers "github.com/edustack/portal/internal/app/controllers"
	appMigrations "github.com/edustack/portal/internal/app/migrations"
	appRepos "github.com/edustack/portal/internal/app/repositories"
	appRoutes "github.com/edustack/portal/internal/app/routes"
	appServices "github.com/edustack/portal/internal/app/services"
	"github.com/edustack/portal/internal/config"
	"github.com/edustack/portal/internal/db"
	appMiddleware "github.com/edustack/portal/internal/middleware"
	pkgAuth "github.com/edustack/portal/internal/pkg/auth"
	"github.com/edustack/portal/internal/pkg/filestorage"
	"github.com/edustack/portal/internal/pkg/helpers"
	"github.com/edustack/portal/internal/pkg/logger"
	"github.com/edustack/portal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos       *appRepos.Repositories
	Services    *appServices.Services
	Guard       *appAuth.Guard
	JWTService  *pkgAuth.JWTService
	Uploader    *filestorage.Uploader
	Controllers *Controllers
	AuthMw      *appMiddleware.AuthMiddleware
}

// Controllers groups the HTTP controllers for route wiring.
type Controllers struct {
	Auth         *appControllers.AuthController
	College      *appControllers.CollegeController
	Registry     *appControllers.RegistryController
	Syllabus     *appControllers.SyllabusController
	Note         *appControllers.NoteController
	Verification *appControllers.VerificationController
	Activity     *appControllers.ActivityController
	Dashboard    *appControllers.DashboardController
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	logger.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).
		Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase establishes the connection pool, runs migrations and seeds
// the default data.
func SetupDatabase(cfg *config.Config) (*db.PostgresDB, error) {
	logger.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	logger.Info().Msg("Database connection established")

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	logger.Info().Msg("Database migrations applied")

	if err := seed.CreateDefaultData(context.Background(), database.Pool, cfg); err != nil {
		// Seeding hiccups should not block startup.
		logger.Error().Err(err).Msg("Failed to create default data, proceeding anyway")
	}

	return database, nil
}

// BuildDependencies initializes repositories, services, controllers and the
// auth middleware.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Guard = appAuth.NewGuard()

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	local, err := filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	var cdn filestorage.Backend
	if cfg.Cloudinary.CloudName != "" && cfg.Cloudinary.APIKey != "" && cfg.Cloudinary.APISecret != "" {
		cdnStorage, err := filestorage.NewCdnStorage(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize CDN storage: %w", err)
		}
		cdn = cdnStorage
		logger.Info().Str("cloud", cfg.Cloudinary.CloudName).Msg("CDN storage configured")
	} else {
		logger.Warn().Msg("CDN storage not configured; uploads go to local storage")
	}
	deps.Uploader = filestorage.NewUploader(cdn, local)

	deps.Services = appServices.NewServices(deps.Repos, database, deps.Guard, deps.JWTService, deps.Uploader)

	deps.AuthMw = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.Controllers = &Controllers{
		Auth:         appControllers.NewAuthController(deps.Services.AuthService),
		College:      appControllers.NewCollegeController(deps.Services.CollegeService),
		Registry:     appControllers.NewRegistryController(deps.Services.RegistryService),
		Syllabus:     appControllers.NewSyllabusController(deps.Services.SyllabusService),
		Note:         appControllers.NewNoteController(deps.Services.NoteService),
		Verification: appControllers.NewVerificationController(deps.Services.VerificationService),
		Activity: appControllers.NewActivityController(
			deps.Services.ActivityService, deps.Repos.UserRepository, deps.Guard),
		Dashboard: appControllers.NewDashboardController(deps.Services.DashboardService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.Controllers.Auth,
		deps.Controllers.College,
		deps.Controllers.Registry,
		deps.Controllers.Syllabus,
		deps.Controllers.Note,
		deps.Controllers.Verification,
		deps.Controllers.Activity,
		deps.Controllers.Dashboard,
		deps.AuthMw,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
