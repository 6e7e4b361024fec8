// Package summarizer sends the assembled prompt to an LLM provider.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deusflow/newsdigest/internal/config"
)

// ErrContextLength is wrapped by errors caused by a prompt that is too large
// for the model. Callers may retry with less input.
var ErrContextLength = errors.New("prompt exceeds model context")

// ErrUnsupportedProvider is returned for an unknown summarizer.provider.
var ErrUnsupportedProvider = errors.New("unsupported summarizer provider")

// Request is one summarization call.
type Request struct {
	System string
	User   string
}

type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// New builds the summarizer selected by cfg.Summarizer.Provider.
func New(ctx context.Context, cfg *config.Config) (Summarizer, error) {
	switch cfg.Summarizer.Provider {
	case "openai":
		return NewOpenAI(cfg.OpenAI, cfg.Summarizer.Timeout), nil
	case "gemini":
		return NewGemini(ctx, cfg.Gemini, cfg.OpenAI, cfg.Summarizer.Timeout)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Summarizer.Provider)
	}
}

// isSizeMessage recognises provider error texts about oversized input.
func isSizeMessage(msg string) bool {
	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "context length"),
		strings.Contains(m, "context_length"),
		strings.Contains(m, "maximum context"),
		strings.Contains(m, "too many tokens"),
		strings.Contains(m, "request too large"):
		return true
	case strings.Contains(m, "token") && strings.Contains(m, "exceed"):
		return true
	}
	return false
}
