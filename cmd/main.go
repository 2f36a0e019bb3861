package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	_ "movie-catalog/docs"
	"movie-catalog/internal/config"
	"movie-catalog/internal/database"
	"movie-catalog/internal/handlers"
	"movie-catalog/internal/repository"
	"movie-catalog/internal/routes"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

// @title Movie Catalog API
// @version 1.0
// @description CRUD API for a movie catalog with poster images kept in object storage

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8010
// @BasePath /api
// @schemes http https

// recordStore is the connection behind the movie repository.
type recordStore interface {
	database.HealthChecker
	Close() error
}

func main() {
	// Load environment variables
	loadEnvFile()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	log := setupLogger()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	movieRepo, store, err := openRecordStore(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	rules := services.PosterRules{
		MaxSize:      cfg.Storage.MaxPosterSize,
		AllowedTypes: services.DefaultPosterTypes,
	}
	assets, err := openAssetStore(cfg, rules, log)
	if err != nil {
		log.Fatalf("Failed to initialize asset storage: %v", err)
	}

	movieService := services.NewMovieService(movieRepo, assets, rules, log)
	movieHandler := handlers.NewMovieHandler(movieService, cfg.Pagination, isDevelopment(), log)

	app := fiber.New(fiber.Config{
		AppName:      "Movie Catalog API",
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: customErrorHandler(log),
	})

	setupMiddleware(app, &cfg.Server)

	app.Get("/health", healthCheckHandler(store, cfg.Database.Driver))

	// Swagger documentation
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Setup API routes
	routes.Setup(app, movieHandler)

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.Infof("Movie Catalog API starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func openRecordStore(cfg *config.Config) (repository.MovieRepository, recordStore, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.Database, cfg.GetDSN())
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresMovieRepository(db), db, nil
	case config.DriverMongo:
		db, err := database.ConnectMongo(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewMongoMovieRepository(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func openAssetStore(cfg *config.Config, rules services.PosterRules, log *logrus.Logger) (services.AssetStore, error) {
	switch cfg.Storage.Provider {
	case config.ProviderAzure:
		store, err := services.NewAzureBlobService(&cfg.Storage.Azure, rules, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.ProviderMinIO:
		store, err := services.NewMinIOService(&cfg.Storage.MinIO, rules, log)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Storage.Provider)
	}
}

func isDevelopment() bool {
	env := os.Getenv("GO_ENV")
	return env == "dev" || env == "development"
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if isDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func setupMiddleware(app *fiber.App, server *config.ServerConfig) {
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	// Logger middleware
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(server.AllowedOriginList(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: false,
		ExposeHeaders:    "Location",
		MaxAge:           86400, // 24 hours
	}))
}

func healthCheckHandler(store database.HealthChecker, driver string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		status := fiber.StatusOK
		if err := store.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
			status = fiber.StatusServiceUnavailable
		}

		return c.Status(status).JSON(fiber.Map{
			"status":    "ok",
			"service":   "movie-catalog",
			"version":   "1.0.0",
			"database":  dbStatus,
			"driver":    driver,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "An unexpected error occurred"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).Error("Request error")

		details := &utils.ErrorDetails{
			ErrorCode:    utils.ErrorCodeForStatus(code),
			ErrorMessage: message,
		}
		if isDevelopment() && code >= fiber.StatusInternalServerError {
			details.ErrorMessage = err.Error()
			details.StackTrace = string(debug.Stack())
		}

		return utils.ErrorWithDetailsResponse(c, code, message, details)
	}
}

func gracefulShutdown(app *fiber.App, log *logrus.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	}

	log.Info("Server shutdown complete")
}

func loadEnvFile() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{})
	log.SetOutput(os.Stdout)

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "dev"
	}

	execDir, err := os.Getwd()
	if err != nil {
		log.Warnf("Could not get working directory: %v", err)
		return
	}

	envFile := filepath.Join(execDir, "envs", ".env."+env)
	if err := godotenv.Load(envFile); err != nil {
		log.Warnf("Could not load environment file %s: %v", envFile, err)

		defaultEnvFile := filepath.Join(execDir, "envs", ".env")
		if err := godotenv.Load(defaultEnvFile); err != nil {
			log.Warnf("Could not load default environment file: %v", err)
		} else {
			log.Infof("Environment loaded from default file %s", defaultEnvFile)
		}
	} else {
		log.Infof("Environment loaded from file %s", envFile)
	}
}
