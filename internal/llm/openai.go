package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dispatchd/bookingflow/internal/common"
)

// openaiClient implements the Client interface via the OpenAI chat API.
type openaiClient struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.1
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}

	return &openaiClient{
		client:      openai.NewClient(cfg.APIKey),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}, nil
}

const systemPrompt = "You are a vehicle rental booking assistant. Follow the instructions exactly and respond only in the requested format."

func (c *openaiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: float32(c.temperature),
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w", common.ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("openai: %w", common.ErrEmptyResponse)
	}
	return text, nil
}
