// OpenAI [Recommender] implementation
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel string = openai.GPT4

	recommendSystemPrompt string = "You are a helpful movie expert."
	recommendUserPrompt   string = "Give me 5 movie recommendations based on: %s. Include year."
)

// ChatCompleter is the subset of [openai.Client] used for recommendations.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIService implements [Recommender] with a chat completion model.
type OpenAIService struct {
	client ChatCompleter
	model  string
}

// NewOpenAIService wraps an existing completion client.
func NewOpenAIService(client ChatCompleter, model string) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIService{client: client, model: model}
}

// NewOpenAIServiceFromConfig builds a go-openai client from the [shared.OpenAIConfig] section.
func NewOpenAIServiceFromConfig(cfg shared.OpenAIConfig) (*OpenAIService, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: openai api key required", shared.ErrMissingCredentials)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return NewOpenAIService(openai.NewClientWithConfig(clientConfig), cfg.Model), nil
}

// Name returns the service name.
func (s *OpenAIService) Name() string {
	return "OpenAI"
}

// Model returns the configured completion model.
func (s *OpenAIService) Model() string {
	return s.model
}

// Recommend asks the model for five recommendations matching prompt and returns its reply verbatim.
func (s *OpenAIService) Recommend(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt must not be empty", shared.ErrMissingArgument)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: recommendSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(recommendUserPrompt, prompt)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: completion request failed: %v", shared.ErrServiceUnavailable, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: completion returned no choices", shared.ErrServiceUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
