package provider

import (
	"context"
	"fmt"
	"log"

	"github.com/mohammad-safakhou/newscast/config"
	"github.com/mohammad-safakhou/newscast/models"
	openai_provider "github.com/mohammad-safakhou/newscast/provider/openai"
)

// Client represents different LLM providers
type Client string

const (
	Mistral Client = "mistral"
	OpenAI  Client = "openai"
)

// Provider is the interface that all text generation backends must satisfy
type Provider interface {
	GenerateReport(ctx context.Context, articles []models.Article, debate bool) (string, error)
}

// NewProvider creates a text generation client from configuration. Mistral and OpenAI
// share the chat completion wire format and differ only in endpoint and model.
func NewProvider(cfg config.LLMConfig, logger *log.Logger) (Provider, error) {
	switch Client(cfg.Provider) {
	case Mistral, OpenAI:
		return openai_provider.NewClient(openai_provider.Options{
			APIKey:      cfg.APIKey,
			Endpoint:    cfg.Endpoint,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			MaxWords:    cfg.MaxWords,
			Timeout:     cfg.Timeout,
			Logger:      logger,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
