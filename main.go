// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"otp-service/cmd"
	"otp-service/internal/data/repository"
	"otp-service/internal/usecase"
	"otp-service/internal/wire"
	"otp-service/pkg/database"
	"otp-service/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	cleanupOnce := pflag.Bool("cleanup-once", false, "delete expired OTPs once and exit")
	pflag.Parse()

	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("store", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open store
	repos, closeStore, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer closeStore()

	// Wire all dependencies
	app, err := wire.Wiring(ctx, repos, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}
	defer app.Close()

	if *cleanupOnce {
		app.Service.OTP.CleanupExpiredOTPs(ctx)
		return
	}

	worker := usecase.NewCleanupWorker(app.Service.OTP, config.OTP.CleanupInterval, logger)
	go worker.Run(ctx)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("HTTP server stopped", zap.Error(err))
	}
	logger.Info("Application stopped")
}

func openStore(ctx context.Context, config utils.DatabaseConfig, logger *zap.Logger) (*repository.Repository, func(), error) {
	if config.Driver == "memory" {
		logger.Warn("Using in-memory OTP store; records are lost on restart")
		return repository.NewMemoryRepository(logger), func() {}, nil
	}

	// Connect to database
	db, err := database.InitDB(config)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connected successfully")

	if config.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database schema up to date")
	}

	return repository.NewRepository(db, logger), db.Close, nil
}
