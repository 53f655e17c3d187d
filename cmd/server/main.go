package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/artconnect/marketplace/internal/ai"
	"github.com/artconnect/marketplace/internal/config"
	"github.com/artconnect/marketplace/internal/database"
	"github.com/artconnect/marketplace/internal/handlers"
	"github.com/artconnect/marketplace/internal/jobs"
	"github.com/artconnect/marketplace/internal/logging"
	"github.com/artconnect/marketplace/internal/middleware"
	"github.com/artconnect/marketplace/internal/otp"
	"github.com/artconnect/marketplace/internal/routes"
	"github.com/artconnect/marketplace/internal/services"
	"github.com/artconnect/marketplace/internal/social"
	"github.com/artconnect/marketplace/internal/store"
	"github.com/artconnect/marketplace/internal/vectorindex"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsesDefaultSecret() {
		slog.Warn("JWT_SECRET not set, using the built-in development secret")
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs
	dbLogHandler := logging.NewDBHandler(db)
	logging.WithDatabase(dbLogHandler)

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cleanupDone)

	// Collaborators
	var codeStore otp.Store = otp.NewMemoryStore()
	if cfg.OTPStore == "database" {
		codeStore = otp.NewDBStore(db)
	}
	var sender otp.Sender = otp.UnconfiguredSender{}
	if cfg.SMSConfigured() {
		sender = otp.NewTwilioSender(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioPhone)
	} else {
		slog.Warn("twilio not configured, OTP codes are only logged")
	}

	var model interface {
		ai.Analyzer
		ai.Embedder
		ai.Transcriber
	} = ai.Unconfigured{}
	if cfg.AIConfigured() {
		model = ai.NewOpenAIClient(ai.OpenAIConfig{
			APIKey:          cfg.OpenAIAPIKey,
			BaseURL:         cfg.OpenAIBaseURL,
			Model:           cfg.OpenAIModel,
			EmbeddingModel:  cfg.OpenAIEmbeddingModel,
			TranscribeModel: cfg.OpenAITranscribeModel,
			Timeout:         cfg.AITimeout,
		})
	} else {
		slog.Warn("OPENAI_API_KEY not set, analysis and recommendations will fail")
	}

	var index vectorindex.Index = vectorindex.Unconfigured{}
	if cfg.IndexConfigured() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		q, err := vectorindex.NewQdrant(ctx, vectorindex.QdrantConfig{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			APIKey:     cfg.QdrantAPIKey,
			UseTLS:     cfg.QdrantUseTLS,
			Collection: cfg.QdrantCollection,
			Dimensions: cfg.EmbeddingDimensions,
		})
		cancel()
		if err != nil {
			slog.Error("qdrant unavailable, publishing will fail", "error", err)
		} else {
			index = q
			defer q.Close()
		}
	} else {
		slog.Warn("QDRANT_HOST not set, publishing will fail")
	}

	var poster social.Poster = social.Unconfigured{}
	if cfg.SocialConfigured() {
		poster = social.NewMastodon(cfg.MastodonServer, cfg.MastodonAccessToken)
	}

	artworks := store.NewArtworkStore(db)

	var dispatcher jobs.Dispatcher
	var inline *jobs.Inline
	if cfg.AMQPURL != "" {
		pub, err := jobs.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			slog.Error("rabbitmq connection failed", "error", err)
			os.Exit(1)
		}
		defer pub.Close()
		dispatcher = pub
		slog.Info("social posts go to rabbitmq", "exchange", cfg.AMQPExchange)
	} else {
		inline = jobs.NewInline(jobs.NewSocialPostHandler(artworks, poster), 2*time.Minute)
		dispatcher = inline
	}

	// Services
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authService := services.NewAuthService(otp.NewManager(codeStore, sender), store.NewUserStore(db), tokens)
	artService := services.NewArtService(services.ArtServiceDeps{
		Artworks:    artworks,
		Analyzer:    model,
		Embedder:    model,
		Transcriber: model,
		Index:       index,
		Jobs:        dispatcher,
	})
	recommendationService := services.NewRecommendationService(artworks, model, index)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(routes.AppConfig())

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, authService, routes.Handlers{
		Auth:   handlers.NewAuthHandler(authService),
		User:   handlers.NewUserHandler(authService, artService),
		Art:    handlers.NewArtHandler(artService),
		Buyer:  handlers.NewBuyerHandler(recommendationService),
		Health: handlers.NewHealthHandler(db),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	if inline != nil {
		inline.Wait()
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
