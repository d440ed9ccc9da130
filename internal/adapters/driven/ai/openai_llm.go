package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/custodia-labs/course-qa/internal/core/ports/driven"
)

// Ensure OpenAILLM implements LLMService
var _ driven.LLMService = (*OpenAILLM)(nil)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1/"
	defaultOpenAIModel   = "gpt-4o-mini"
	defaultOllamaBaseURL = "http://localhost:11434/v1/"
	defaultOllamaModel   = "llama3.2"
)

// OpenAILLM implements LLMService with the chat completions API.
// It also serves any OpenAI-compatible endpoint such as Ollama or a course proxy.
type OpenAILLM struct {
	client openai.Client
	model  string
}

// NewOpenAILLM creates an LLM service for an OpenAI-compatible endpoint.
// Requests are never retried; callers own the timeout through ctx.
func NewOpenAILLM(apiKey, model, baseURL string) (*OpenAILLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return newChatLLM(apiKey, model, baseURL), nil
}

// NewOllamaLLM creates an LLM service for Ollama's OpenAI-compatible API.
func NewOllamaLLM(baseURL, model string) (*OpenAILLM, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	// Ollama ignores the key but the client always sends one
	return newChatLLM("ollama", model, baseURL), nil
}

func newChatLLM(apiKey, model, baseURL string) *OpenAILLM {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	)
	return &OpenAILLM{client: client, model: model}
}

// Complete sends one system and one user message and returns the reply text.
func (l *OpenAILLM) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	completion, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userMessage),
		},
		Model: openai.ChatModel(l.model),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("chat completion: status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", fmt.Errorf("chat completion: no choices returned")
	}
	return completion.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (l *OpenAILLM) Model() string {
	return l.model
}

// Close is a no-op; the client holds no resources beyond the shared transport
func (l *OpenAILLM) Close() error {
	return nil
}
