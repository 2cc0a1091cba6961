package models

import "time"

// Turn roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// EditTurn is one entry of the conversation log. Immutable once appended.
type EditTurn struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the single editing session owned by the orchestrator.
//
// CurrentDocument is nil exactly when OriginalText and CurrentText are nil.
// CurrentText differing from OriginalText means unsaved edits exist.
type Session struct {
	ID                 string
	CurrentDocument    *DocumentRef
	OriginalText       *string
	CurrentText        *string
	ConversationLog    []EditTurn
	AvailableDocuments []DocumentRef
}

// Dirty reports whether the current text has unsaved edits.
func (s *Session) Dirty() bool {
	if s.OriginalText == nil || s.CurrentText == nil {
		return false
	}
	return *s.OriginalText != *s.CurrentText
}

// SessionState is a read-only snapshot of a Session for rendering.
type SessionState struct {
	ID                 string        `json:"id"`
	CurrentDocument    *DocumentRef  `json:"current_document"`
	OriginalText       *string       `json:"original_text"`
	CurrentText        *string       `json:"current_text"`
	ConversationLog    []EditTurn    `json:"conversation_log"`
	AvailableDocuments []DocumentRef `json:"available_documents"`
	Dirty              bool          `json:"dirty"`
}

// Snapshot deep-copies the session so callers cannot mutate it.
func (s *Session) Snapshot() SessionState {
	state := SessionState{
		ID:                 s.ID,
		ConversationLog:    append([]EditTurn{}, s.ConversationLog...),
		AvailableDocuments: append([]DocumentRef{}, s.AvailableDocuments...),
		Dirty:              s.Dirty(),
	}
	if s.CurrentDocument != nil {
		doc := *s.CurrentDocument
		state.CurrentDocument = &doc
	}
	if s.OriginalText != nil {
		text := *s.OriginalText
		state.OriginalText = &text
	}
	if s.CurrentText != nil {
		text := *s.CurrentText
		state.CurrentText = &text
	}
	return state
}

// SaveResult reports the outcome of a save.
// Saved is false when there was nothing to save.
type SaveResult struct {
	Saved    bool         `json:"saved"`
	Document *DocumentRef `json:"document,omitempty"`
}

// Inspection bundles everything known about a document without loading it.
type Inspection struct {
	Document   DocumentRef      `json:"document"`
	Structure  *Structure       `json:"structure"`
	Validation ValidationReport `json:"validation"`
	Stats      TextStats        `json:"stats"`
}
