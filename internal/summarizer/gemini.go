package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/newsdigest/internal/config"
)

// Gemini summarizes with Google's Generative Language API. Token and
// temperature limits are shared with the openai section of the config.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float32
	timeout     time.Duration
}

func NewGemini(ctx context.Context, cfg config.GeminiConfig, limits config.OpenAIConfig, timeout time.Duration) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client:      client,
		model:       cfg.Model,
		maxTokens:   int32(limits.MaxTokens),
		temperature: limits.Temperature,
		timeout:     timeout,
	}, nil
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *Gemini) Summarize(ctx context.Context, req Request) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	if g.maxTokens > 0 {
		model.SetMaxOutputTokens(g.maxTokens)
	}
	model.SetTemperature(g.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(req.User))
	if err != nil {
		if isSizeMessage(err.Error()) {
			return "", fmt.Errorf("gemini: %w: %w", ErrContextLength, err)
		}
		return "", fmt.Errorf("gemini: failed to generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini: no response text")
	}
	return text, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return strings.TrimSpace(b.String())
}
