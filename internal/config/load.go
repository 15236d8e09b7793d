package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "INBOX"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.memory_result_limit", 1000)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.client_id", "")
	v.SetDefault("auth.client_secret_hash", "")

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.cache_ttl", "1h")

	v.SetDefault("processor.max_concurrent_operations", 4)
	v.SetDefault("processor.max_queue_size", 100)
	v.SetDefault("processor.operation_timeout", "30s")
	v.SetDefault("processor.batch_size", 10)
	v.SetDefault("processor.progress_update_interval", "500ms")
	v.SetDefault("processor.enable_streaming", true)
	v.SetDefault("processor.max_retries", 2)
	v.SetDefault("processor.batch_item_delay", "100ms")
}

// Load reads configuration from defaults, an optional config.yaml in the
// working directory and INBOX_* environment variables, in increasing order of
// precedence. The result is validated before it is returned.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// INBOX_PROCESSOR_MAX_QUEUE_SIZE overrides processor.max_queue_size
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
