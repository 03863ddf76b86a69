// Package providers adapts LLM backends behind a single chat interface.
// Two wire families are supported: the OpenAI chat-completions API (which
// also covers OpenRouter via a custom base URL) and the Anthropic Messages
// API.
package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/nkval/teleclaw/pkg/config"
)

// Role values for transcript turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one prior exchange half in a conversation transcript.
type Turn struct {
	Role    string
	Content string
}

// Provider produces an assistant reply for a user message given the prior
// transcript. Implementations are safe for sequential use from a single
// goroutine.
type Provider interface {
	// Reply returns the assistant's response to text, with history as the
	// preceding turns in chronological order.
	Reply(ctx context.Context, history []Turn, text string) (string, error)
	// Name identifies the backend for logging.
	Name() string
}

// New builds a Provider from configuration.
func New(cfg config.ProviderConfig) (Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("provider %q: API key is empty", cfg.Name)
	}

	switch cfg.Name {
	case "openai":
		return newOpenAI(cfg), nil
	case "openrouter":
		c := cfg
		if c.APIBase == "" {
			c.APIBase = "https://openrouter.ai/api/v1"
		}
		return newOpenAI(c), nil
	case "anthropic":
		return newAnthropic(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
}
