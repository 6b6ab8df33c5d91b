// main.go
package main

import (
	"context"
	"log"
	"time"

	"school-transport/cmd"
	"school-transport/internal/data/repository"
	"school-transport/internal/metrics"
	"school-transport/internal/notifier"
	"school-transport/internal/scheduler"
	"school-transport/internal/wire"
	"school-transport/pkg/database"
	"school-transport/pkg/payment"
	"school-transport/pkg/utils"

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

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Metrics registry
	collector := metrics.NewCollector()

	// Payment gateway
	provider := payment.NewStripeProvider(config.Stripe.SecretKey, config.Stripe.WebhookSecret)

	// Notification publisher. The API keeps serving when NATS is down;
	// notifications resume on reconnect.
	var notify notifier.Notifier
	natsNotifier, err := notifier.NewNATSNotifier(config.NATS.URL, config.NATS.SubjectPrefix, collector, logger)
	if err != nil {
		logger.Warn("NATS unavailable, notifications disabled", zap.Error(err))
	} else {
		notify = natsNotifier
		defer natsNotifier.Close()
	}

	// Wire all dependencies
	app := wire.Wiring(repos, provider, notify, collector, config, logger)

	// Background sweeper for date-driven booking transitions
	sweeper := scheduler.NewSweeper(repos.Booking, app.Service.Lifecycle, notify, collector, scheduler.Config{
		SweepInterval:   time.Duration(config.Scheduler.StatusSweepMinutes) * time.Minute,
		WarningInterval: time.Duration(config.Scheduler.ExpiryWarningHours) * time.Hour,
		WarningWindow:   time.Duration(config.Scheduler.ExpiryWarningWindow) * 24 * time.Hour,
	}, logger)
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
