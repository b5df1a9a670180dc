package services

import (
	"context"
	"errors"
	"testing"

	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/sashabaranov/go-openai"
)

type fakeCompleter struct {
	request  openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	err      error
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = req
	return f.response, f.err
}

func TestOpenAIService(t *testing.T) {
	t.Run("builds the recommendation prompt", func(t *testing.T) {
		fake := &fakeCompleter{response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: " 1. Heat (1995) \n"}}},
		}}
		svc := NewOpenAIService(fake, "")

		got, err := svc.Recommend(context.Background(), "heist thrillers")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "1. Heat (1995)" {
			t.Errorf("unexpected reply %q", got)
		}

		if fake.request.Model != openai.GPT4 {
			t.Errorf("expected default model %s, got %s", openai.GPT4, fake.request.Model)
		}
		if len(fake.request.Messages) != 2 {
			t.Fatalf("expected 2 messages, got %d", len(fake.request.Messages))
		}
		if fake.request.Messages[0].Role != openai.ChatMessageRoleSystem || fake.request.Messages[0].Content != "You are a helpful movie expert." {
			t.Errorf("unexpected system message %+v", fake.request.Messages[0])
		}
		want := "Give me 5 movie recommendations based on: heist thrillers. Include year."
		if fake.request.Messages[1].Content != want {
			t.Errorf("expected user prompt %q, got %q", want, fake.request.Messages[1].Content)
		}
	})

	t.Run("wraps client failures", func(t *testing.T) {
		svc := NewOpenAIService(&fakeCompleter{err: errors.New("rate limited")}, "gpt-4o")
		if _, err := svc.Recommend(context.Background(), "anything"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		svc := NewOpenAIService(&fakeCompleter{}, "gpt-4o")
		if _, err := svc.Recommend(context.Background(), "anything"); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("empty prompt", func(t *testing.T) {
		svc := NewOpenAIService(&fakeCompleter{}, "")
		if _, err := svc.Recommend(context.Background(), "  "); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("config requires key", func(t *testing.T) {
		if _, err := NewOpenAIServiceFromConfig(shared.OpenAIConfig{}); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		svc, err := NewOpenAIServiceFromConfig(shared.OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if svc.Model() != "gpt-4o-mini" {
			t.Errorf("expected configured model, got %s", svc.Model())
		}
	})
}
