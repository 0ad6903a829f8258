package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration, loaded from environment
// variables.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// Store backend: "embedded" (default, pure-Go chromem-go + in-memory
	// maps) or "dynamodb" (cloud-backed, single-table design).
	StoreBackend   string
	SnapshotPath   string // embedded store only; empty disables snapshotting
	AWSRegion      string
	DynamoDBTable  string
	EventBusName   string
	EngramCacheSize int64

	// Embedding provider: "native" (deterministic hash embedder, no
	// external dependency), "onnx" (local ONNX BERT model), or "hosted"
	// (remote embeddings endpoint).
	EmbedderProvider string
	OnnxModelPath     string
	OnnxTokenizerPath string
	OnnxSharedLibPath string
	OnnxMaxSeqLength  int
	HostedEmbedderURL string
	HostedEmbedderKey string
	HostedEmbedderModel string

	// Extraction provider: "native" (regex/keyword heuristics, no external
	// dependency) or "anthropic" (hosted LLM extraction).
	CompletionProvider string
	AnthropicAPIKey    string
	AnthropicModel     string

	// Reinforcement worker pool, draining the async signal-boost queue.
	ReinforceWorkers  int
	ReinforceQueueSize int

	// Logging
	LogLevel string

	// Authentication
	JWTSecret string
	JWTIssuer string

	// Rate limiting
	RateLimitPerMinute int
	RateLimitBurst     int

	// Feature flags
	EnableMetrics bool
	EnableTracing bool
	EnableCORS    bool

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		StoreBackend:    getEnv("STORE_BACKEND", "embedded"),
		SnapshotPath:    getEnv("SNAPSHOT_PATH", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:   getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", "mnemosyne")),
		EventBusName:    getEnv("EVENT_BUS_NAME", "mnemosyne-events"),
		EngramCacheSize: int64(getEnvInt("ENGRAM_CACHE_SIZE", 10000)),

		EmbedderProvider:    getEnv("EMBEDDER_PROVIDER", "native"),
		OnnxModelPath:       getEnv("ONNX_MODEL_PATH", ""),
		OnnxTokenizerPath:   getEnv("ONNX_TOKENIZER_PATH", ""),
		OnnxSharedLibPath:   getEnv("ONNX_SHARED_LIB_PATH", ""),
		OnnxMaxSeqLength:    getEnvInt("ONNX_MAX_SEQ_LENGTH", 128),
		HostedEmbedderURL:   getEnv("HOSTED_EMBEDDER_URL", ""),
		HostedEmbedderKey:   getEnv("HOSTED_EMBEDDER_KEY", ""),
		HostedEmbedderModel: getEnv("HOSTED_EMBEDDER_MODEL", "text-embedding-3-small"),

		CompletionProvider: getEnv("COMPLETION_PROVIDER", "native"),
		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", "claude-3-5-haiku-latest"),

		ReinforceWorkers:   getEnvInt("REINFORCE_WORKERS", 4),
		ReinforceQueueSize: getEnvInt("REINFORCE_QUEUE_SIZE", 256),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTIssuer: getEnv("JWT_ISSUER", "mnemosyne"),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 20),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		EnableMetrics: getEnvBool("ENABLE_METRICS", false),
		EnableTracing: getEnvBool("ENABLE_TRACING", false),
		EnableCORS:    getEnvBool("ENABLE_CORS", true),

		ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 15)) * time.Second,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig for backwards compatibility.
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks that all required configuration is present and every
// provider selection names a provider this build actually wires.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case "embedded", "dynamodb":
	default:
		return fmt.Errorf("STORE_BACKEND must be \"embedded\" or \"dynamodb\", got %q", c.StoreBackend)
	}
	switch c.EmbedderProvider {
	case "native", "onnx", "hosted":
	default:
		return fmt.Errorf("EMBEDDER_PROVIDER must be \"native\", \"onnx\", or \"hosted\", got %q", c.EmbedderProvider)
	}
	switch c.CompletionProvider {
	case "native", "anthropic":
	default:
		return fmt.Errorf("COMPLETION_PROVIDER must be \"native\" or \"anthropic\", got %q", c.CompletionProvider)
	}

	if c.Environment == "production" {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if c.StoreBackend == "dynamodb" && c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required when STORE_BACKEND=dynamodb")
		}
		if c.CompletionProvider == "anthropic" && c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when COMPLETION_PROVIDER=anthropic")
		}
		if c.EmbedderProvider == "hosted" && c.HostedEmbedderURL == "" {
			return fmt.Errorf("HOSTED_EMBEDDER_URL is required when EMBEDDER_PROVIDER=hosted")
		}
	}

	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
