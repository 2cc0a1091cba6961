package handler

import (
	"log/slog"
	"net/http"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/httputil"
)

// SessionHandler exposes the editing session over HTTP
type SessionHandler struct {
	session services.SessionService
	logger  *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(session services.SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		session: session,
		logger:  logger,
	}
}

type loadDocumentRequest struct {
	ID string `json:"id"`
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

type editResponse struct {
	Result *models.EditResult  `json:"result"`
	State  models.SessionState `json:"state"`
}

type summaryRequest struct {
	Length string `json:"length"`
}

type chatRequest struct {
	Message string `json:"message"`
}

// HealthCheck handles GET /health
func (h *SessionHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetState handles GET /api/session
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.session.State())
}

// ListTurns handles GET /api/session/turns
func (h *SessionHandler) ListTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := h.session.Turns(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, turns)
}

// ClearTurns handles DELETE /api/session/turns
func (h *SessionHandler) ClearTurns(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ClearHistory(r.Context()); err != nil {
		handleError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshDocuments handles POST /api/documents/refresh
func (h *SessionHandler) RefreshDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := h.session.RefreshList(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, docs)
}

// ListDocuments handles GET /api/documents; it returns the last listing
func (h *SessionHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, h.session.State().AvailableDocuments)
}

// InspectDocument handles GET /api/documents/{id}/inspect
func (h *SessionHandler) InspectDocument(w http.ResponseWriter, r *http.Request) {
	inspection, err := h.session.Inspect(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, inspection)
}

// LoadDocument handles POST /api/session/document
func (h *SessionHandler) LoadDocument(w http.ResponseWriter, r *http.Request) {
	var req loadDocumentRequest
	if !h.parse(w, r, &req) {
		return
	}

	if err := h.session.LoadDocumentByID(r.Context(), req.ID); err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, h.session.State())
}

// SubmitEdit handles POST /api/session/edits
func (h *SessionHandler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if !h.parse(w, r, &req) {
		return
	}

	result, err := h.session.SubmitEdit(r.Context(), req.Instruction)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editResponse{Result: result, State: h.session.State()})
}

// FixGrammar handles POST /api/session/grammar
func (h *SessionHandler) FixGrammar(w http.ResponseWriter, r *http.Request) {
	result, err := h.session.FixGrammar(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, editResponse{Result: result, State: h.session.State()})
}

// Save handles POST /api/session/save
func (h *SessionHandler) Save(w http.ResponseWriter, r *http.Request) {
	result, err := h.session.Save(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, result)
}

// Analyze handles POST /api/session/analysis
func (h *SessionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.session.Analyze(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, analysis)
}

// Suggest handles POST /api/session/suggestions
func (h *SessionHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.session.Suggest(r.Context())
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"suggestions": suggestions})
}

// Summarize handles POST /api/session/summary
func (h *SessionHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !h.parse(w, r, &req) {
		return
	}

	summary, err := h.session.Summarize(r.Context(), req.Length)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// Chat handles POST /api/session/chat
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !h.parse(w, r, &req) {
		return
	}

	reply, err := h.session.Chat(r.Context(), req.Message)
	if err != nil {
		handleError(w, h.logger, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// RegisterRoutes mounts the handler on mux using Go 1.22 method patterns
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HealthCheck)

	mux.HandleFunc("GET /api/documents", h.ListDocuments)
	mux.HandleFunc("POST /api/documents/refresh", h.RefreshDocuments)
	mux.HandleFunc("GET /api/documents/{id}/inspect", h.InspectDocument)

	mux.HandleFunc("GET /api/session", h.GetState)
	mux.HandleFunc("POST /api/session/document", h.LoadDocument)
	mux.HandleFunc("POST /api/session/edits", h.SubmitEdit)
	mux.HandleFunc("POST /api/session/grammar", h.FixGrammar)
	mux.HandleFunc("POST /api/session/save", h.Save)
	mux.HandleFunc("GET /api/session/turns", h.ListTurns)
	mux.HandleFunc("DELETE /api/session/turns", h.ClearTurns)
	mux.HandleFunc("POST /api/session/analysis", h.Analyze)
	mux.HandleFunc("POST /api/session/suggestions", h.Suggest)
	mux.HandleFunc("POST /api/session/summary", h.Summarize)
	mux.HandleFunc("POST /api/session/chat", h.Chat)
}

func (h *SessionHandler) parse(w http.ResponseWriter, r *http.Request, dest any) bool {
	if err := httputil.ParseJSON(w, r, dest); err != nil {
		handleError(w, h.logger, &domain.ValidationError{Message: err.Error()})
		return false
	}
	return true
}
