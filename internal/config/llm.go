package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/dispatchd/bookingflow/internal/llm"
)

// LoadLLMConfig loads model backend settings from Viper with environment
// variable fallbacks for the API key. An unconfigured backend is not an
// error; the caller gets a config that NewClient turns into
// ErrBackendUnavailable and the pipeline runs on rules.
func LoadLLMConfig() llm.Config {
	cfg := llm.Config{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		RateLimit:   viper.GetFloat64("llm.rate_limit"),
		RateBurst:   viper.GetInt("llm.rate_burst"),
	}

	if cfg.APIKey == "" {
		switch strings.ToLower(cfg.Provider) {
		case "openai":
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic":
			cfg.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		case "gemini":
			cfg.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	return cfg
}
