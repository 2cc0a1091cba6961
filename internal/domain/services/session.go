package services

import (
	"context"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// SessionService orchestrates the single editing session.
// Operations run one at a time; a failed operation leaves the session unchanged
// except for the turn pair recorded by a failed edit.
type SessionService interface {
	// Resume restores the conversation log from the transcript store
	Resume(ctx context.Context) error

	// RefreshList replaces the available documents with a fresh drive listing
	RefreshList(ctx context.Context) ([]models.DocumentRef, error)

	// LoadDocument downloads and extracts a document, making it current
	LoadDocument(ctx context.Context, ref models.DocumentRef) error

	// LoadDocumentByID resolves the reference from the last listing or the drive
	LoadDocumentByID(ctx context.Context, id string) error

	// SubmitEdit asks the assistant to apply an instruction to the current text
	SubmitEdit(ctx context.Context, instruction string) (*models.EditResult, error)

	// Save uploads the current text when it differs from the saved text
	Save(ctx context.Context) (*models.SaveResult, error)

	// FixGrammar applies a grammar and style pass to the current text, recorded as an edit
	FixGrammar(ctx context.Context) (*models.EditResult, error)

	// Suggest lists improvement ideas without changing the text
	Suggest(ctx context.Context) ([]string, error)

	// ClearHistory empties the conversation log
	ClearHistory(ctx context.Context) error

	// State returns a snapshot of the session
	State() models.SessionState

	// Turns returns the persisted conversation log
	Turns(ctx context.Context) ([]models.EditTurn, error)

	Analyze(ctx context.Context) (*models.DocumentAnalysis, error)
	Summarize(ctx context.Context, length string) (string, error)
	Chat(ctx context.Context, message string) (string, error)

	// Inspect reports structure, validation and text stats for any drive document
	Inspect(ctx context.Context, id string) (*models.Inspection, error)
}
