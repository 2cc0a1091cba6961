package llm

import (
	"context"
)

// Provider defines the interface that all model bindings must implement.
// One binding is selected by configuration; the assistant never knows which.
type Provider interface {
	// GenerateResponse sends a single-turn request and returns the reply text.
	GenerateResponse(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

	// Name returns the provider name (e.g., "gemini", "anthropic")
	Name() string

	// SupportsModel returns true if the provider supports the given model.
	SupportsModel(model string) bool
}

// GenerateRequest contains the parameters for a model request.
type GenerateRequest struct {
	// Model is the model identifier (e.g., "gemini-2.5-flash")
	Model string

	// System is the directive placed ahead of the user content
	System string

	// Prompt is the user content, including the full document text
	Prompt string

	// JSON asks the provider for a JSON object reply when it supports it
	JSON bool

	// MaxTokens bounds the reply; zero means the provider default
	MaxTokens int
}

// GenerateResponse contains the provider's reply.
type GenerateResponse struct {
	Text string

	// Model is the model that was used (may differ from request if aliased)
	Model string

	InputTokens  int
	OutputTokens int

	// StopReason indicates why generation stopped (e.g., "end_turn", "STOP")
	StopReason string
}
