package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/clientdesk/clientdesk/internal/auth"
	"github.com/clientdesk/clientdesk/internal/mailer"
	"github.com/clientdesk/clientdesk/internal/tasks"
	"github.com/clientdesk/clientdesk/pkg/config"
	"github.com/clientdesk/clientdesk/pkg/queue"
	"github.com/clientdesk/clientdesk/pkg/util"
	"github.com/hibiken/asynq"
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

	logger.Info("starting clientdesk worker")

	var resetMailer auth.ResetMailer
	if cfg.Mail.SendGridAPIKey != "" {
		resetMailer = mailer.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.Sender, cfg.Mail.SenderName)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, reset emails will be logged instead of sent")
		resetMailer = mailer.NewLogMailer(logger)
	}

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, 10)

	// Create task handler
	handler := tasks.NewHandler(resetMailer, logger)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Handle shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
	}()

	logger.Info("worker started, waiting for tasks...")

	// Start the server
	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
		os.Exit(1)
	}
}
