package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/seongbear/document-edit-ai/internal/config"
	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/repositories"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/domain/services/docsystem"
	llmSvc "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
)

// fixGrammarRequest is the user turn recorded for a grammar and style pass
const fixGrammarRequest = "Fix grammar and style"

// Service implements services.SessionService.
// The mutex is held for the whole of every operation, external calls included,
// so at most one action is in flight.
type Service struct {
	mu      sync.Mutex
	session models.Session

	store     services.DocumentStore
	codec     docsystem.DocumentCodec
	assistant llmSvc.EditAssistant
	analyzer  services.ContentAnalyzer
	turns     repositories.TurnRepository
	logger    *slog.Logger

	now       func() time.Time
	lastStamp time.Time
}

// NewService creates the session orchestrator. An empty sessionID gets a fresh one.
func NewService(
	sessionID string,
	store services.DocumentStore,
	codec docsystem.DocumentCodec,
	assistant llmSvc.EditAssistant,
	analyzer services.ContentAnalyzer,
	turns repositories.TurnRepository,
	logger *slog.Logger,
) services.SessionService {
	return newService(sessionID, store, codec, assistant, analyzer, turns, logger, time.Now)
}

func newService(
	sessionID string,
	store services.DocumentStore,
	codec docsystem.DocumentCodec,
	assistant llmSvc.EditAssistant,
	analyzer services.ContentAnalyzer,
	turns repositories.TurnRepository,
	logger *slog.Logger,
	now func() time.Time,
) *Service {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	return &Service{
		session: models.Session{
			ID:                 sessionID,
			ConversationLog:    []models.EditTurn{},
			AvailableDocuments: []models.DocumentRef{},
		},
		store:     store,
		codec:     codec,
		assistant: assistant,
		analyzer:  analyzer,
		turns:     turns,
		logger:    logger.With("session_id", sessionID),
		now:       now,
	}
}

// Resume replaces the in-memory log with the persisted one.
func (s *Service) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.turns.ListTurns(ctx, s.session.ID)
	if err != nil {
		return fmt.Errorf("resume session: %w", err)
	}
	s.session.ConversationLog = turns
	if n := len(turns); n > 0 {
		s.lastStamp = turns[n-1].Timestamp
	}
	s.logger.Info("session resumed", "turns", len(turns))
	return nil
}

// RefreshList replaces the available documents. A failed listing keeps the old list.
func (s *Service) RefreshList(ctx context.Context) ([]models.DocumentRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		s.logger.Warn("document listing failed", "error", err)
		return nil, err
	}
	s.session.AvailableDocuments = docs
	s.logger.Info("document list refreshed", "count", len(docs))
	return append([]models.DocumentRef{}, docs...), nil
}

// LoadDocument makes ref the current document. Unsaved edits of the previous
// document are discarded; the conversation log is kept.
func (s *Service) LoadDocument(ctx context.Context, ref models.DocumentRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, ref)
}

// LoadDocumentByID loads a document by id, preferring metadata from the last listing.
func (s *Service) LoadDocumentByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.resolve(ctx, id)
	if err != nil {
		return err
	}
	return s.load(ctx, *ref)
}

func (s *Service) load(ctx context.Context, ref models.DocumentRef) error {
	if strings.TrimSpace(ref.ID) == "" {
		return &domain.ValidationError{Message: "document id is required"}
	}

	data, err := s.store.DownloadDocument(ctx, ref.ID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", ref.Name, err)
	}
	text, err := s.codec.ExtractText(data)
	if err != nil {
		return fmt.Errorf("load document %s: %w", ref.Name, err)
	}

	if s.session.Dirty() {
		s.logger.Warn("discarding unsaved edits", "id", s.session.CurrentDocument.ID)
	}

	doc := ref
	original, current := text, text
	s.session.CurrentDocument = &doc
	s.session.OriginalText = &original
	s.session.CurrentText = &current

	s.logger.Info("document loaded", "id", ref.ID, "name", ref.Name, "bytes", len(data), "chars", len(text))
	return nil
}

func (s *Service) resolve(ctx context.Context, id string) (*models.DocumentRef, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &domain.ValidationError{Message: "document id is required"}
	}
	for _, doc := range s.session.AvailableDocuments {
		if doc.ID == id {
			ref := doc
			return &ref, nil
		}
	}
	return s.store.GetDocumentInfo(ctx, id)
}

// SubmitEdit applies an instruction to the current text through the assistant.
// Both outcomes append a user turn and an assistant turn; only success changes the text.
func (s *Service) SubmitEdit(ctx context.Context, instruction string) (*models.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return nil, domain.ErrNoDocument
	}
	instruction, err := validateMessage("instruction", instruction)
	if err != nil {
		return nil, err
	}

	return s.applyEdit(ctx, instruction, func() (*models.EditResult, error) {
		return s.assistant.ProcessEditRequest(ctx, *s.session.CurrentText, instruction)
	})
}

// FixGrammar applies the assistant's grammar and style pass to the current
// text, recording it like any other edit.
func (s *Service) FixGrammar(ctx context.Context) (*models.EditResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return nil, domain.ErrNoDocument
	}
	return s.applyEdit(ctx, fixGrammarRequest, func() (*models.EditResult, error) {
		return s.assistant.FixGrammarAndStyle(ctx, *s.session.CurrentText)
	})
}

// applyEdit runs one edit call and records its outcome. Caller holds mu.
func (s *Service) applyEdit(ctx context.Context, request string, call func() (*models.EditResult, error)) (*models.EditResult, error) {
	result, editErr := call()
	if editErr != nil {
		s.logger.Warn("edit request failed", "error", editErr)
		reply := "Failed to process request: " + editErr.Error()
		if err := s.record(ctx, request, reply); err != nil {
			s.logger.Error("failed to record failed edit", "error", err)
		}
		return nil, editErr
	}

	if err := s.record(ctx, request, result.Explanation); err != nil {
		return nil, err
	}
	edited := result.EditedText
	s.session.CurrentText = &edited

	s.logger.Info("edit applied", "chars", len(edited), "dirty", s.session.Dirty())
	return result, nil
}

// Save uploads the current text if it has unsaved edits.
func (s *Service) Save(ctx context.Context) (*models.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return nil, domain.ErrNoDocument
	}
	if !s.session.Dirty() {
		return &models.SaveResult{Saved: false}, nil
	}

	data, err := s.codec.CreateDocument(*s.session.CurrentText)
	if err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	ack, err := s.store.UploadDocument(ctx, s.session.CurrentDocument.ID, data)
	if err != nil {
		s.logger.Warn("save failed", "id", s.session.CurrentDocument.ID, "error", err)
		return nil, fmt.Errorf("save document: %w", err)
	}

	saved := *s.session.CurrentText
	s.session.OriginalText = &saved

	s.logger.Info("document saved", "id", s.session.CurrentDocument.ID, "bytes", len(data))
	return &models.SaveResult{Saved: true, Document: ack}, nil
}

// ClearHistory empties the conversation log. Document text is untouched.
func (s *Service) ClearHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.turns.ClearTurns(ctx, s.session.ID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.session.ConversationLog = []models.EditTurn{}
	s.logger.Info("conversation cleared")
	return nil
}

// State returns a snapshot for rendering.
func (s *Service) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Snapshot()
}

// Turns reads the persisted log.
func (s *Service) Turns(ctx context.Context) ([]models.EditTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns.ListTurns(ctx, s.session.ID)
}

func (s *Service) Analyze(ctx context.Context) (*models.DocumentAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return nil, domain.ErrNoDocument
	}
	return s.assistant.AnalyzeDocument(ctx, *s.session.CurrentText)
}

// Suggest lists improvement ideas for the current text without changing it.
func (s *Service) Suggest(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return nil, domain.ErrNoDocument
	}
	return s.assistant.SuggestImprovements(ctx, *s.session.CurrentText)
}

func (s *Service) Summarize(ctx context.Context, length string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentDocument == nil {
		return "", domain.ErrNoDocument
	}
	err := validation.Validate(length,
		validation.In(models.SummaryShort, models.SummaryMedium, models.SummaryLong).
			Error("length must be short, medium or long"),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return s.assistant.Summarize(ctx, *s.session.CurrentText, length)
}

// Chat answers a free-form message, using the current text as context when a
// document is loaded. Only answered messages enter the log.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, err := validateMessage("message", message)
	if err != nil {
		return "", err
	}

	var documentText string
	if s.session.CurrentText != nil {
		documentText = *s.session.CurrentText
	}
	reply, err := s.assistant.GeneralChatResponse(ctx, message, documentText)
	if err != nil {
		return "", err
	}
	if err := s.record(ctx, message, reply); err != nil {
		return "", err
	}
	return reply, nil
}

// Inspect reports on any drive document without loading it.
func (s *Service) Inspect(ctx context.Context, id string) (*models.Inspection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ref, err := s.resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.store.DownloadDocument(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("inspect document %s: %w", ref.Name, err)
	}

	report := s.codec.Validate(data)
	structure, err := s.codec.ExtractStructure(data)
	if err != nil {
		return nil, fmt.Errorf("inspect document %s: %w", ref.Name, err)
	}
	text, err := s.codec.ExtractText(data)
	if err != nil {
		return nil, fmt.Errorf("inspect document %s: %w", ref.Name, err)
	}

	return &models.Inspection{
		Document:   *ref,
		Structure:  structure,
		Validation: report,
		Stats:      s.analyzer.Analyze(text),
	}, nil
}

// record persists a user/assistant pair, then mirrors it in memory.
func (s *Service) record(ctx context.Context, userContent, assistantContent string) error {
	user := s.newTurn(models.RoleUser, userContent)
	assistant := s.newTurn(models.RoleAssistant, assistantContent)

	if err := s.turns.AppendTurns(ctx, s.session.ID, user, assistant); err != nil {
		return fmt.Errorf("record turns: %w", err)
	}
	s.session.ConversationLog = append(s.session.ConversationLog, user, assistant)
	return nil
}

// newTurn stamps turns with strictly increasing microsecond timestamps so log
// order survives a round trip through the database.
func (s *Service) newTurn(role, content string) models.EditTurn {
	stamp := s.now().UTC().Truncate(time.Microsecond)
	if !stamp.After(s.lastStamp) {
		stamp = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = stamp

	return models.EditTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: stamp,
	}
}

func validateMessage(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	err := validation.Validate(value,
		validation.Required.Error(field+" is required"),
		validation.RuneLength(0, config.MaxInstructionLength).
			Error(fmt.Sprintf("%s must be at most %d characters", field, config.MaxInstructionLength)),
	)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}
	return value, nil
}
