// main.go
package main

import (
	"context"
	"log"
	"time"

	"home-cleaning/cmd"
	"home-cleaning/internal/data/repository"
	"home-cleaning/internal/wire"
	"home-cleaning/pkg/database"
	"home-cleaning/pkg/mailer"
	"home-cleaning/pkg/payment"
	"home-cleaning/pkg/utils"

	"go.uber.org/zap"
)

func main() {
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
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories, building indexes up front
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	repos, err := repository.NewRepository(ctx, db.Database(), logger)
	cancel()
	if err != nil {
		logger.Fatal("Failed to initialize repositories", zap.Error(err))
	}

	// External collaborators verify their credentials lazily, so a
	// misconfigured mailer or gateway surfaces per-request instead of
	// blocking startup.
	mail := mailer.NewMailer(config.Email, logger)
	gateway := payment.NewClient(config.Razorpay.KeyID, config.Razorpay.KeySecret, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, mail, gateway, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
