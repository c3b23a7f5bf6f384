package llm

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// rateLimitedClient wraps another client behind a token-bucket limiter so
// batch runs stay inside provider quotas.
type rateLimitedClient struct {
	inner   Client
	limiter *rate.Limiter
}

func withRateLimit(inner Client, perSecond float64, burst int) Client {
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedClient{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (c *rateLimitedClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}
	return c.inner.Generate(ctx, prompt)
}
