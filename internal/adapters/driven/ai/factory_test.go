package ai

import (
	"errors"
	"testing"

	"github.com/custodia-labs/course-qa/internal/core/domain"
)

func TestFactory_CreateLLMService_NilSettings(t *testing.T) {
	svc, err := NewFactory().CreateLLMService(nil)
	if err != nil {
		t.Errorf("expected no error for nil settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service for nil settings")
	}
}

func TestFactory_CreateLLMService_NotConfigured(t *testing.T) {
	settings := &domain.LLMSettings{Provider: domain.AIProviderOpenAI}

	svc, err := NewFactory().CreateLLMService(settings)
	if err != nil {
		t.Errorf("expected no error for unconfigured settings, got %v", err)
	}
	if svc != nil {
		t.Error("expected nil service when the API key is missing")
	}
}

func TestFactory_CreateLLMService_OpenAI(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "gpt-4o-mini",
		APIKey:   "sk-test",
	}

	svc, err := NewFactory().CreateLLMService(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Model() != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %s", svc.Model())
	}
}

func TestFactory_CreateLLMService_Ollama(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  "http://localhost:11434/v1/",
	}

	svc, err := NewFactory().CreateLLMService(settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Model() != defaultOllamaModel {
		t.Errorf("expected default model %s, got %s", defaultOllamaModel, svc.Model())
	}
}

func TestFactory_CreateLLMService_InvalidProvider(t *testing.T) {
	settings := &domain.LLMSettings{
		Provider: "invalid-provider",
		Model:    "some-model",
		APIKey:   "test-key",
	}

	_, err := NewFactory().CreateLLMService(settings)
	if !errors.Is(err, domain.ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
}
