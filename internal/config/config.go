package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/futig/support-bot/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR" envDefault:":8000"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// Completion/embedding provider configuration
	GeminiCfg GeminiConfig `envPrefix:"GEMINI_"`

	// FAQ corpus configuration
	FAQPath                string        `env:"FAQ_PATH" envDefault:"data/faqs.csv"`
	FAQSimilarityThreshold float64       `env:"FAQ_SIMILARITY_THRESHOLD" envDefault:"0.5"`
	FAQQueryCacheTTL       time.Duration `env:"FAQ_QUERY_CACHE_TTL" envDefault:"5m"`

	// Conversation configuration
	ChatHistoryLimit int `env:"CHAT_HISTORY_LIMIT" envDefault:"10"`
	HistoryPageLimit int `env:"HISTORY_PAGE_LIMIT" envDefault:"50"`
	MaxMessageLength int `env:"MAX_MESSAGE_LENGTH" envDefault:"4096"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (only required by the telegram-bot binary)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Environment (set from flag, not from env var)
	Environment string
}

// GeminiConfig holds the Google Generative Language API configuration.
// One config (and one connector built from it) covers both the completion
// and the embedding model, so corpus-load-time and query-time embeddings
// always come from the same provider.
type GeminiConfig struct {
	HTTPClientConfig
	APIKey         string               `env:"API_KEY"`
	GenerateModel  string               `env:"GENERATE_MODEL" envDefault:"gemini-2.0-flash"`
	EmbeddingModel string               `env:"EMBEDDING_MODEL" envDefault:"text-embedding-004"`
	Temperature    float64              `env:"TEMPERATURE" envDefault:"0.3"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken           string `env:"BOT_TOKEN"`
	UpdateTimeout      int    `env:"UPDATE_TIMEOUT" envDefault:"30"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	RateLimitBurst     int    `env:"RATE_LIMIT_BURST" envDefault:"5"`
	ShutdownTimeout    int    `env:"SHUTDOWN_TIMEOUT" envDefault:"10"` // seconds
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://generativelanguage.googleapis.com"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	// The provider credential is a fatal startup requirement unless the
	// service runs against mock connectors.
	if !cfg.EnableMocks && cfg.GeminiCfg.APIKey == "" {
		errors = append(errors, "GEMINI_API_KEY must be set when ENABLE_MOCKS is false")
	}

	if cfg.FAQSimilarityThreshold < -1 || cfg.FAQSimilarityThreshold > 1 {
		errors = append(errors, fmt.Sprintf("FAQ_SIMILARITY_THRESHOLD must be within [-1, 1], got %g", cfg.FAQSimilarityThreshold))
	}

	if cfg.ChatHistoryLimit < 1 || cfg.ChatHistoryLimit > 100 {
		errors = append(errors, fmt.Sprintf("CHAT_HISTORY_LIMIT must be between 1 and 100, got %d", cfg.ChatHistoryLimit))
	}

	if cfg.HistoryPageLimit < 1 || cfg.HistoryPageLimit > 500 {
		errors = append(errors, fmt.Sprintf("HISTORY_PAGE_LIMIT must be between 1 and 500, got %d", cfg.HistoryPageLimit))
	}

	// Validate Database configuration
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
