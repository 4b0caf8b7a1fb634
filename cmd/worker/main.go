package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/hugh/leadtrack/internal/database"
	"github.com/hugh/leadtrack/internal/mailer"
	"github.com/hugh/leadtrack/internal/storage"
	"github.com/hugh/leadtrack/internal/tasks"
	"github.com/hugh/leadtrack/pkg/config"
	"github.com/hugh/leadtrack/pkg/queue"
	"github.com/hugh/leadtrack/pkg/util"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting leadtrack worker")

	// Connect to database
	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Upload storage is needed to attach resumes to reviewer emails
	store, err := storage.NewStore(cfg.Upload.Dir, cfg.Upload.AllowedExts)
	if err != nil {
		logger.Error("failed to initialize upload storage", "error", err)
		os.Exit(1)
	}

	sender := mailer.NewSMTPSender(&cfg.SMTP, cfg.Mail.FromAddress, logger)
	notifier := mailer.NewNotifier(sender, store, cfg.Mail.ReviewerEmail, cfg.Mail.CompanyName)

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Create task handler
	handler := tasks.NewHandler(db, notifier, logger)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Handle shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	// Wait for context cancellation
	<-ctx.Done()

	// Close database connection
	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
