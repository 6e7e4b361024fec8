package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/deusflow/newsdigest/internal/config"
)

// OpenAI summarizes with the chat completions API (or any compatible
// endpoint set through base_url).
type OpenAI struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAI(cfg config.OpenAIConfig, timeout time.Duration) *OpenAI {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

func (o *OpenAI) Summarize(ctx context.Context, req Request) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai: no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai: empty completion")
	}
	return text, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if code, ok := apiErr.Code.(string); ok && code == "context_length_exceeded" {
			return fmt.Errorf("openai: %w: %w", ErrContextLength, err)
		}
		if apiErr.HTTPStatusCode == http.StatusRequestEntityTooLarge || isSizeMessage(apiErr.Message) {
			return fmt.Errorf("openai: %w: %w", ErrContextLength, err)
		}
		return fmt.Errorf("openai: %w", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusRequestEntityTooLarge {
		return fmt.Errorf("openai: %w: %w", ErrContextLength, err)
	}

	if isSizeMessage(err.Error()) {
		return fmt.Errorf("openai: %w: %w", ErrContextLength, err)
	}
	return fmt.Errorf("openai: %w", err)
}
