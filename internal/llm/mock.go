package llm

import (
	"context"
	"sync"
)

// MockClient is a scripted Client for tests. Responses are returned in
// order; after the script runs out the last entry repeats. A configured
// Err wins over any response.
type MockClient struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	calls     int

	// Prompts records every prompt received, in order.
	Prompts []string
}

// Generate returns the next scripted response.
func (m *MockClient) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", ErrBackendUnavailable
	}

	idx := m.calls
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	m.calls++
	return m.Responses[idx], nil
}

// CallCount reports how many times Generate has been invoked.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
