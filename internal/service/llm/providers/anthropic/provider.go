package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/seongbear/document-edit-ai/internal/capabilities"
	domainllm "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
)

const (
	providerName = "anthropic"

	// maxNonStreamingTokens keeps a single blocking request under the SDK's
	// non-streaming time limit.
	maxNonStreamingTokens = 16384
)

// Provider implements the Provider interface for Anthropic (Claude) models.
type Provider struct {
	client anthropic.Client
	caps   *capabilities.Registry
}

// NewProvider creates a new Anthropic provider with the given API key.
// Extra request options are applied after the key (e.g., a base URL in tests).
func NewProvider(apiKey string, caps *capabilities.Registry, opts ...option.RequestOption) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Provider{
		client: anthropic.NewClient(opts...),
		caps:   caps,
	}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// SupportsModel returns true if this provider supports the given model.
// Anthropic models start with "claude-"
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "claude-")
}

// GenerateResponse generates a response from Claude.
// Claude has no JSON response mode; JSON directives rely on the system prompt.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Anthropic provider", req.Model)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: int64(p.maxTokens(req)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &domainllm.GenerateResponse{
		Text:         text.String(),
		Model:        string(message.Model),
		InputTokens:  int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
		StopReason:   string(message.StopReason),
	}, nil
}

func (p *Provider) maxTokens(req *domainllm.GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	limit := maxNonStreamingTokens
	if p.caps != nil {
		limit = p.caps.MaxOutput(providerName, req.Model, maxNonStreamingTokens)
	}
	return min(limit, maxNonStreamingTokens)
}
