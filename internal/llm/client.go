// Package llm provides text-generation clients for the model backends the
// pipeline can use. Every stage treats the backend as optional: a client
// error routes the caller to its deterministic fallback, so providers here
// make exactly one attempt per call.
package llm

import (
	"context"
	"errors"
)

// ErrBackendUnavailable means no model backend is configured or reachable.
// Callers fall through to their rule-based paths on this error.
var ErrBackendUnavailable = errors.New("llm backend unavailable")

// Client defines the interface for model providers.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds provider-agnostic client settings.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	// Requests per second; zero disables rate limiting.
	RateLimit float64
	RateBurst int
}
