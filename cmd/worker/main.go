// Command worker consumes social post jobs published by the server when
// AMQP_URL is set.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/artconnect/marketplace/internal/config"
	"github.com/artconnect/marketplace/internal/database"
	"github.com/artconnect/marketplace/internal/jobs"
	"github.com/artconnect/marketplace/internal/logging"
	"github.com/artconnect/marketplace/internal/social"
	"github.com/artconnect/marketplace/internal/store"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	dbLogHandler := logging.NewDBHandler(db)
	logging.WithDatabase(dbLogHandler)
	defer dbLogHandler.Stop()

	var poster social.Poster = social.Unconfigured{}
	if cfg.SocialConfigured() {
		poster = social.NewMastodon(cfg.MastodonServer, cfg.MastodonAccessToken)
	} else {
		slog.Warn("mastodon not configured, every job will fail")
	}

	consumer := jobs.NewAMQPConsumer(jobs.ConsumerConfig{
		URL:      cfg.AMQPURL,
		Exchange: cfg.AMQPExchange,
	}, jobs.NewSocialPostHandler(store.NewArtworkStore(db), poster))
	if err := consumer.Connect(); err != nil {
		slog.Error("rabbitmq connection failed", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("worker started", "exchange", cfg.AMQPExchange)
	if err := consumer.Run(ctx); err != nil {
		slog.Error("worker stopped", "error", err)
		return
	}
	slog.Info("worker stopped")
}
