package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/internal/api"
	"taskmanager/internal/app/service"
	"taskmanager/internal/common/security"
	"taskmanager/internal/domain/repository"
	"taskmanager/internal/platform/config"
	"taskmanager/internal/platform/database"

	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// 1. Load Configuration
	cfg := config.Load()
	logger.Info().Msg("Configuration loaded")

	// 2. Initialize JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	// 3. Initialize Database
	db, err := database.Connect(cfg.DBConnStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	logger.Info().Msg("Database connected")

	if err := database.Migrate(context.Background(), db); err != nil {
		logger.Fatal().Err(err).Msg("Migration failed")
	}

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	taskRepo := repository.NewPgTaskRepository(db)

	// 5. Initialize Services
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo)
	taskService := service.NewTaskService(taskRepo, userRepo)

	// 6. Bootstrap the default admin when none exists
	err = userService.EnsureDefaultAdmin(context.Background(),
		cfg.DefaultAdminUsername, cfg.DefaultAdminEmail, cfg.DefaultAdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("Admin bootstrap failed")
	}

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, userService, taskService)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info().Str("port", cfg.APIPort).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Str("port", cfg.APIPort).Msg("Could not listen")
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info().Msg("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("Server shutdown failed")
	}

	logger.Info().Msg("Server stopped gracefully")
}
