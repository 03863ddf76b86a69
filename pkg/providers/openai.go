package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nkval/teleclaw/pkg/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

// openAIProvider speaks the chat-completions API. OpenRouter and other
// compatible gateways reuse it with a different base URL.
type openAIProvider struct {
	client openai.Client
	model  string
	system string
	name   string
}

func newOpenAI(cfg config.ProviderConfig) *openAIProvider {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		system: cfg.SystemTag,
		name:   cfg.Name,
	}
}

func (p *openAIProvider) Name() string { return p.name }

func (p *openAIProvider) Reply(ctx context.Context, history []Turn, text string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if p.system != "" {
		messages = append(messages, openai.SystemMessage(p.system))
	}
	for _, turn := range history {
		switch turn.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(text))

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    p.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return completion.Choices[0].Message.Content, nil
}

var _ Provider = (*openAIProvider)(nil)
