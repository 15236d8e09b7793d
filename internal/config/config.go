package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm" validate:"required"`
	Processor ProcessorConfig `mapstructure:"processor" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// ShutdownTimeout bounds graceful shutdown of the server and the processor.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains result history storage settings.
type DatabaseConfig struct {
	// URL is optional. When empty, results are kept in memory only.
	URL string `mapstructure:"url" validate:"omitempty,url"`

	// MemoryResultLimit caps the in-memory result history.
	MemoryResultLimit int `mapstructure:"memory_result_limit" validate:"gt=0"`
}

// AuthConfig contains API authentication settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0,lt=44640"`

	// ClientID and ClientSecretHash identify the single API client. The hash is
	// produced by cmd/hash-generator.
	ClientID         string `mapstructure:"client_id" validate:"required"`
	ClientSecretHash string `mapstructure:"client_secret_hash" validate:"required"`
}

// LLMConfig contains Gemini integration settings.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key" validate:"required"`
	ModelName    string `mapstructure:"model_name" validate:"required"`

	// RetryDelay is the base delay of the exponential backoff between attempts.
	RetryDelay time.Duration `mapstructure:"retry_delay" validate:"gt=0"`

	// CacheTTL is how long successful responses are reused. Zero disables caching.
	CacheTTL time.Duration `mapstructure:"cache_ttl" validate:"gte=0"`
}

// ProcessorConfig contains background operation processor settings.
type ProcessorConfig struct {
	MaxConcurrentOperations int           `mapstructure:"max_concurrent_operations" validate:"gt=0"`
	MaxQueueSize            int           `mapstructure:"max_queue_size" validate:"gt=0"`
	OperationTimeout        time.Duration `mapstructure:"operation_timeout" validate:"gt=0"`
	BatchSize               int           `mapstructure:"batch_size" validate:"gt=0"`
	ProgressUpdateInterval  time.Duration `mapstructure:"progress_update_interval" validate:"gt=0"`
	EnableStreaming         bool          `mapstructure:"enable_streaming"`

	// MaxRetries is applied by the Gemini client, not by the processor.
	MaxRetries     int           `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	BatchItemDelay time.Duration `mapstructure:"batch_item_delay" validate:"gte=0"`
}
