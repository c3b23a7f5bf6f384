package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dispatchd/bookingflow/internal/common"
)

// anthropicClient implements the Client interface via the Anthropic
// messages API.
type anthropicClient struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func newAnthropicClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = string(anthropic.ModelClaude3_5HaikuLatest)
	}

	maxTokens := int64(cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &anthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}, nil
}

func (c *anthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			text := strings.TrimSpace(block.Text)
			if text != "" {
				return text, nil
			}
		}
	}
	return "", fmt.Errorf("anthropic: %w", common.ErrEmptyResponse)
}
