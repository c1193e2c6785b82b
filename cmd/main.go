package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"translation-backend/internal/config"
	"translation-backend/internal/database"
	"translation-backend/internal/handlers"
	"translation-backend/internal/middleware"
	"translation-backend/internal/models"
	"translation-backend/internal/realtime"
	"translation-backend/internal/repository"
	"translation-backend/internal/routes"
	"translation-backend/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	loadEnvFile()

	// Load configuration
	cfg := config.Load()

	// Setup logger
	log := setupLogger()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()

	translationRepo := repository.NewTranslationRepository(db)
	namespaceRepo := repository.NewNamespaceRepository(db)
	userRepo := repository.NewUserRepository(db)

	bootstrapAdmin(userRepo, cfg, log)

	translationService := services.NewTranslationService(translationRepo, namespaceRepo, cfg, log)
	syncService := services.NewLocaleSyncService(cfg.Locales.Dir, log)

	if ts, ok := translationService.(interface {
		SetSyncService(services.LocaleSyncService)
	}); ok {
		ts.SetSyncService(syncService)
	}

	csvService := services.NewCSVService(translationService, translationRepo, log)

	hub := realtime.NewHub(log)

	translationHandler := handlers.NewTranslationHandler(translationService, hub, log)
	importExportHandler := handlers.NewImportExportHandler(csvService, cfg.Upload.MaxCSVSize, log)
	namespaceHandler := handlers.NewNamespaceHandler(namespaceRepo, log)
	authHandler := handlers.NewAuthHandler(userRepo, log)

	if cfg.ArchiveEnabled() {
		archiveService, err := services.NewArchiveService(&cfg.Archive, log)
		if err != nil {
			log.WithError(err).Warn("Export archive disabled: client initialization failed")
		} else {
			importExportHandler.SetArchiveService(archiveService)
		}
	}

	app := fiber.New(fiber.Config{
		AppName:               "Translation Management API",
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: false,
		ErrorHandler:          customErrorHandler(log),
	})

	setupMiddleware(app, cfg)

	app.Get("/health", healthCheckHandler(db))

	// Setup API routes
	routes.Setup(app, routes.Deps{
		Translations: translationHandler,
		ImportExport: importExportHandler,
		Namespaces:   namespaceHandler,
		Auth:         authHandler,
		WebSocket:    handlers.WebSocketHandler(hub, log),
	}, middleware.Protected(cfg.JWT.Secret, log))

	// Graceful shutdown
	go gracefulShutdown(app, log)

	log.Infof("Translation Management API starting on port %s", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start HTTP server: %v", err)
	}
}

func setupLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if os.Getenv("GO_ENV") == "dev" || os.Getenv("GO_ENV") == "development" {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}

func setupMiddleware(app *fiber.App, cfg *config.Config) {
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
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS, PATCH",
		AllowCredentials: false,
		MaxAge:           86400, // 24 hours
	}))

	// Fixed-window rate limit keyed by client IP. The storage backend is
	// swappable for multi-instance deployments via limiter.Config.Storage.
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit.Max,
		Expiration: cfg.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))
}

func healthCheckHandler(db *database.Database) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbStatus := "healthy"
		if err := db.HealthCheck(); err != nil {
			dbStatus = "unhealthy"
		}

		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "translation-backend",
			"version":   "1.0.0",
			"database":  dbStatus,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func customErrorHandler(log *logrus.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": code,
		}).Error("Request error")

		return c.Status(code).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"code":    code,
		})
	}
}

// bootstrapAdmin seeds the initial ADMIN account when ADMIN_EMAIL is set and
// the account does not exist yet. Failures are logged, not fatal.
func bootstrapAdmin(users repository.UserRepository, cfg *config.Config, log *logrus.Logger) {
	if cfg.Admin.Email == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := users.FindByEmail(ctx, cfg.Admin.Email)
	if err != nil {
		log.WithError(err).Warn("Failed to check for admin account")
		return
	}
	if existing != nil {
		return
	}

	admin := &models.User{
		Email: cfg.Admin.Email,
		Name:  cfg.Admin.Name,
		Role:  models.RoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.WithError(err).Warn("Failed to seed admin account")
		return
	}
	log.WithField("email", admin.Email).Info("Admin account created")
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
