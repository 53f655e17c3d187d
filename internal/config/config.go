package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is not set so the process can
// still boot for local development.
const DefaultJWTSecret = "artconnect-dev-secret"

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// Database
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"artconnect.db"`

	// Sessions
	JWTSecret string        `env:"JWT_SECRET" envDefault:"artconnect-dev-secret"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" envDefault:"168h"`

	// OTP
	OTPStore string `env:"OTP_STORE" envDefault:"memory"`

	// SMS
	TwilioSID   string `env:"TWILIO_SID"`
	TwilioToken string `env:"TWILIO_TOKEN"`
	TwilioPhone string `env:"TWILIO_PHONE"`

	// AI
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL"`
	OpenAIModel           string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIEmbeddingModel  string        `env:"OPENAI_EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	OpenAITranscribeModel string        `env:"OPENAI_TRANSCRIBE_MODEL" envDefault:"whisper-1"`
	AITimeout             time.Duration `env:"AI_TIMEOUT" envDefault:"60s"`

	// Vector index
	QdrantHost          string `env:"QDRANT_HOST"`
	QdrantPort          int    `env:"QDRANT_PORT" envDefault:"6334"`
	QdrantAPIKey        string `env:"QDRANT_API_KEY"`
	QdrantUseTLS        bool   `env:"QDRANT_USE_TLS" envDefault:"false"`
	QdrantCollection    string `env:"QDRANT_COLLECTION" envDefault:"artworks"`
	EmbeddingDimensions uint64 `env:"EMBEDDING_DIMENSIONS" envDefault:"1536"`

	// Social
	MastodonServer      string `env:"MASTODON_SERVER"`
	MastodonAccessToken string `env:"MASTODON_ACCESS_TOKEN"`

	// Jobs
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"artconnect.events"`
}

// Load reads an optional .env file and then parses the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}
	return Parse()
}

// Parse builds a Config from the current environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.OTPStore != "memory" && cfg.OTPStore != "database" {
		return nil, fmt.Errorf("parse env: OTP_STORE must be memory or database, got %q", cfg.OTPStore)
	}
	return &cfg, nil
}

func (c *Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func (c *Config) SMSConfigured() bool {
	return c.TwilioSID != "" && c.TwilioToken != "" && c.TwilioPhone != ""
}

func (c *Config) AIConfigured() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) IndexConfigured() bool {
	return c.QdrantHost != ""
}

func (c *Config) SocialConfigured() bool {
	return c.MastodonServer != "" && c.MastodonAccessToken != ""
}
