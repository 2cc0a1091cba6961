package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/seongbear/document-edit-ai/internal/capabilities"
	domainllm "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
)

const (
	providerName     = "gemini"
	defaultMaxTokens = 8192
)

// Config holds the settings for a Gemini provider
type Config struct {
	APIKey string

	// BaseURL overrides the API endpoint (tests)
	BaseURL    string
	HTTPClient *http.Client
}

// Provider implements the Provider interface for Google Gemini models.
type Provider struct {
	client *genai.Client
	caps   *capabilities.Registry
}

// NewProvider creates a Gemini Developer API provider.
func NewProvider(ctx context.Context, cfg Config, caps *capabilities.Registry) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Provider{client: client, caps: caps}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return providerName
}

// SupportsModel returns true for "gemini-" models
func (p *Provider) SupportsModel(model string) bool {
	return strings.HasPrefix(model, "gemini-")
}

// GenerateResponse generates a response from Gemini.
func (p *Provider) GenerateResponse(ctx context.Context, req *domainllm.GenerateRequest) (*domainllm.GenerateResponse, error) {
	if !p.SupportsModel(req.Model) {
		return nil, fmt.Errorf("model '%s' is not supported by Gemini provider", req.Model)
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(p.maxTokens(req)),
	}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSON && p.supportsJSON(req.Model) {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := p.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}

	out := &domainllm.GenerateResponse{
		Text:  resp.Text(),
		Model: req.Model,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	if len(resp.Candidates) > 0 {
		out.StopReason = string(resp.Candidates[0].FinishReason)
	}
	return out, nil
}

// supportsJSON reports JSON mode for the model; unlisted models are assumed capable.
func (p *Provider) supportsJSON(model string) bool {
	if p.caps == nil {
		return true
	}
	caps, err := p.caps.GetModelCapabilities(providerName, model)
	if err != nil {
		return true
	}
	return caps.SupportsJSONMode
}

func (p *Provider) maxTokens(req *domainllm.GenerateRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if p.caps == nil {
		return defaultMaxTokens
	}
	return p.caps.MaxOutput(providerName, req.Model, defaultMaxTokens)
}
