package llm

import (
	"context"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// EditAssistant turns document text plus a natural-language request into model output.
// Calls are stateless: the full document text is sent every time.
type EditAssistant interface {
	// ProcessEditRequest returns the complete edited text, never a diff.
	// Failures are *domain.ModelError values.
	ProcessEditRequest(ctx context.Context, documentText, instruction string) (*models.EditResult, error)

	AnalyzeDocument(ctx context.Context, documentText string) (*models.DocumentAnalysis, error)
	SuggestImprovements(ctx context.Context, documentText string) ([]string, error)
	FixGrammarAndStyle(ctx context.Context, documentText string) (*models.EditResult, error)

	// Summarize accepts "short", "medium" or "long"; anything else means medium.
	Summarize(ctx context.Context, documentText, length string) (string, error)

	// GeneralChatResponse answers a message, with the document as optional context.
	GeneralChatResponse(ctx context.Context, message, documentText string) (string, error)
}
