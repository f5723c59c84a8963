// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`
	DBURL  string `env:"DB_URL"`
	// RedisAddr enables the embedding cache when set (host:port).
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisEmbedTTL time.Duration `env:"REDIS_EMBED_TTL" envDefault:"24h"`

	// Model artifacts, read once at startup. Fatal if missing.
	WeightsPath string `env:"MODEL_WEIGHTS_PATH" envDefault:"artifacts/weights.txt"`
	BiasPath    string `env:"MODEL_BIAS_PATH" envDefault:"artifacts/bias.txt"`
	// CoefficientsPath points to the career-level blend coefficient YAML.
	// Empty means use the built-in table.
	CoefficientsPath string `env:"BLEND_COEFFICIENTS_PATH"`

	// Qualitative analyzer / embeddings (OpenAI-compatible API). When the
	// key is empty the deterministic stub client is used instead.
	AIAPIKey        string        `env:"AI_API_KEY"`
	AIBaseURL       string        `env:"AI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	ChatModel       string        `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingsModel string        `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`
	AnalyzerTimeout time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"45s"`
	// Analyzer backoff configuration
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"90s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"20s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`
	// PromptTokenBudget caps resume text sent to the analyzer.
	PromptTokenBudget int `env:"PROMPT_TOKEN_BUDGET" envDefault:"6000"`

	// TikaURL specifies the base URL for the Apache Tika server used for
	// PDF/DOCX text extraction.
	TikaURL string `env:"TIKA_URL" envDefault:"http://tika:9998"`

	// BatchConcurrency bounds the per-resume scoring workers.
	BatchConcurrency int `env:"BATCH_CONCURRENCY" envDefault:"8"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ats-screener"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// IsTest reports whether the app is running in test mode.
func (c Config) IsTest() bool { return strings.ToLower(c.AppEnv) == "test" }

// AIEnabled reports whether a real analyzer/embeddings client is configured.
func (c Config) AIEnabled() bool { return c.AIAPIKey != "" }

// GetAIBackoffConfig returns backoff configuration for the current environment.
// Test environments use much shorter intervals for fast test execution.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if c.IsTest() {
		return 5 * time.Second, 100 * time.Millisecond, 1 * time.Second, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
