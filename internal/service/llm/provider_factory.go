package llm

import (
	"context"
	"fmt"

	"github.com/seongbear/document-edit-ai/internal/capabilities"
	"github.com/seongbear/document-edit-ai/internal/config"
	llmSvc "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
	"github.com/seongbear/document-edit-ai/internal/service/llm/providers/anthropic"
	"github.com/seongbear/document-edit-ai/internal/service/llm/providers/gemini"
)

// ProviderFactory creates provider instances from configuration
type ProviderFactory struct {
	config *config.Config
	caps   *capabilities.Registry
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config, caps *capabilities.Registry) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
		caps:   caps,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "gemini" - Gemini models via the Gemini Developer API
//   - "anthropic" - Claude models via Anthropic API
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (llmSvc.Provider, error) {
	switch providerName {
	case config.ProviderGemini:
		return f.createGeminiProvider(ctx)

	case config.ProviderAnthropic:
		return f.createAnthropicProvider()

	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}

func (f *ProviderFactory) createGeminiProvider(ctx context.Context) (llmSvc.Provider, error) {
	if f.config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	provider, err := gemini.NewProvider(ctx, gemini.Config{APIKey: f.config.GeminiAPIKey}, f.caps)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini provider: %w", err)
	}
	return provider, nil
}

func (f *ProviderFactory) createAnthropicProvider() (llmSvc.Provider, error) {
	if f.config.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}

	provider, err := anthropic.NewProvider(f.config.AnthropicAPIKey, f.caps)
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}
	return provider, nil
}
