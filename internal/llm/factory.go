package llm

import (
	"fmt"
	"strings"
)

// NewClient creates a model client for the configured provider. A missing
// API key or empty provider returns ErrBackendUnavailable rather than a
// hard error, since the pipeline runs fine on fallbacks alone.
func NewClient(cfg Config) (Client, error) {
	if cfg.Provider == "" || strings.EqualFold(cfg.Provider, "none") {
		return nil, ErrBackendUnavailable
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key for provider %s", ErrBackendUnavailable, cfg.Provider)
	}

	var (
		client Client
		err    error
	)

	switch strings.ToLower(cfg.Provider) {
	case "openai":
		client, err = newOpenAIClient(cfg)
	case "anthropic":
		client, err = newAnthropicClient(cfg)
	case "gemini":
		client, err = newGeminiClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		client = withRateLimit(client, cfg.RateLimit, cfg.RateBurst)
	}

	return client, nil
}
