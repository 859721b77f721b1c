package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lexxo/lexxo-backend/config"
	"github.com/lexxo/lexxo-backend/internal/app/controller"
	"github.com/lexxo/lexxo-backend/internal/app/repository"
	"github.com/lexxo/lexxo-backend/internal/app/service"
	"github.com/lexxo/lexxo-backend/internal/db"
	"github.com/lexxo/lexxo-backend/internal/middleware"
	"github.com/lexxo/lexxo-backend/internal/router"
	"github.com/lexxo/lexxo-backend/internal/scheduler"
	"github.com/lexxo/lexxo-backend/pkg/logger"
	"github.com/lexxo/lexxo-backend/pkg/mailer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Lexxo Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	resetRepo := repository.NewPasswordResetRepository(db.GetDB())
	blogRepo := repository.NewBlogRepository(db.GetDB())

	// Initialize mailer
	mail := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Email, cfg.SMTP.Password)

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		mail,
		cfg.JWT.Secret,
		cfg.JWT.Expiry,
	)
	passwordResetService := service.NewPasswordResetService(
		resetRepo,
		userRepo,
		mail,
		db.GetDB(),
		cfg.JWT.Secret,
		cfg.JWT.Expiry,
	)
	blogService := service.NewBlogService(blogRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService, passwordResetService, cfg.JWT.Expiry)
	blogController := controller.NewBlogController(blogService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		blogController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start background cleanup of expired password reset requests
	cleanup := scheduler.NewCleanupScheduler(resetRepo)
	if err := cleanup.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanup.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
