// Package ai provides the chat-completion provider used to generate answers.
package ai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/Mishleyn/T-Prep/internal/profile"
)

// Config holds the AI provider configuration.
type Config struct {
	BaseURL   string
	APIKey    string
	ChatModel string
}

// NewConfigFromProfile builds the provider config from the startup profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	return &Config{
		BaseURL:   p.OpenAIBaseURL,
		APIKey:    p.OpenAIAPIKey,
		ChatModel: p.ChatModel,
	}
}

// ChatCompleter produces an answer for a single prompt.
type ChatCompleter interface {
	Chat(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Provider implements ChatCompleter on the OpenAI chat-completion API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new AI provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = openai.GPT3Dot5Turbo
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Chat sends the prompt as a single user message and returns the completion
// text verbatim. There is no retry and no content filtering; upstream
// failures propagate to the caller.
func (p *Provider) Chat(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: p.config.ChatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to complete chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty chat response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured chat model name.
func (p *Provider) Model() string {
	return p.config.ChatModel
}
