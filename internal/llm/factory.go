package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates provider clients from configuration values.
type Factory struct {
	GeminiAPIKey       string
	GeminiBaseURL      string
	GeminiModel        string
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenaiModel        string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
	Timeout            time.Duration
}

func (f *Factory) CreateClient(provider string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderGemini:
		return NewGemini(context.Background(), f.GeminiAPIKey, f.GeminiBaseURL, f.GeminiModel, nil)
	case ProviderOpenAI:
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, f.OpenRouterReferrer, f.OpenRouterTitle), nil
	case ProviderYandex:
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// CreateGateway builds the client for provider and wraps it in a
// TurnGateway bounded by f.Timeout.
func (f *Factory) CreateGateway(provider string) (*TurnGateway, error) {
	client, err := f.CreateClient(provider)
	if err != nil {
		return nil, err
	}
	return NewGateway(client, strings.ToLower(provider), f.Timeout), nil
}
