package gemini

import (
	"fmt"

	"github.com/phrazzld/inbox-ai/internal/ai"
	"github.com/phrazzld/inbox-ai/internal/config"
)

// validateConfig rejects settings the client cannot work with.
func validateConfig(cfg config.LLMConfig, maxRetries int) error {
	if cfg.GeminiAPIKey == "" {
		return fmt.Errorf("%w: gemini API key cannot be empty", ai.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return fmt.Errorf("%w: model name cannot be empty", ai.ErrInvalidConfig)
	}
	if maxRetries < 0 {
		return fmt.Errorf("%w: max retries cannot be negative", ai.ErrInvalidConfig)
	}
	if cfg.RetryDelay <= 0 {
		return fmt.Errorf("%w: retry delay must be positive", ai.ErrInvalidConfig)
	}
	return nil
}
