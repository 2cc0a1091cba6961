package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

// stubSession records calls and returns scripted results.
type stubSession struct {
	err         error
	state       models.SessionState
	edit        *models.EditResult
	loadedID    string
	instruction string
	length      string
	cleared     bool
}

func (s *stubSession) Resume(context.Context) error { return s.err }

func (s *stubSession) RefreshList(context.Context) ([]models.DocumentRef, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.DocumentRef{{ID: "abc", Name: "report.docx"}}, nil
}

func (s *stubSession) LoadDocument(_ context.Context, ref models.DocumentRef) error {
	s.loadedID = ref.ID
	return s.err
}

func (s *stubSession) LoadDocumentByID(_ context.Context, id string) error {
	s.loadedID = id
	return s.err
}

func (s *stubSession) SubmitEdit(_ context.Context, instruction string) (*models.EditResult, error) {
	s.instruction = instruction
	if s.err != nil {
		return nil, s.err
	}
	return s.edit, nil
}

func (s *stubSession) FixGrammar(context.Context) (*models.EditResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.edit, nil
}

func (s *stubSession) Suggest(context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []string{"Add headings"}, nil
}

func (s *stubSession) Save(context.Context) (*models.SaveResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.SaveResult{Saved: true, Document: &models.DocumentRef{ID: "abc"}}, nil
}

func (s *stubSession) ClearHistory(context.Context) error {
	s.cleared = true
	return s.err
}

func (s *stubSession) State() models.SessionState { return s.state }

func (s *stubSession) Turns(context.Context) ([]models.EditTurn, error) {
	return []models.EditTurn{{ID: "t1", Role: models.RoleUser, Content: "hi"}}, s.err
}

func (s *stubSession) Analyze(context.Context) (*models.DocumentAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.DocumentAnalysis{Tone: "formal"}, nil
}

func (s *stubSession) Summarize(_ context.Context, length string) (string, error) {
	s.length = length
	return "short summary", s.err
}

func (s *stubSession) Chat(_ context.Context, message string) (string, error) {
	return "reply to " + message, s.err
}

func (s *stubSession) Inspect(_ context.Context, id string) (*models.Inspection, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.Inspection{Document: models.DocumentRef{ID: id}}, nil
}

func newTestMux(stub *stubSession) *http.ServeMux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	NewSessionHandler(stub, logger).RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestSessionHandler_Routes(t *testing.T) {
	text := "Hello."
	stub := &stubSession{
		state: models.SessionState{ID: "s1", CurrentText: &text, Dirty: true},
		edit:  &models.EditResult{EditedText: "Hello.", Explanation: "Shortened."},
	}
	mux := newTestMux(stub)

	t.Run("health", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decode(t, rec)["status"])
	})

	t.Run("state", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/session", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "s1", body["id"])
		assert.Equal(t, true, body["dirty"])
	})

	t.Run("load document", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/document", `{"id":"abc"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "abc", stub.loadedID)
	})

	t.Run("submit edit", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/edits", `{"instruction":"make it shorter"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "make it shorter", stub.instruction)

		body := decode(t, rec)
		result := body["result"].(map[string]any)
		assert.Equal(t, "Hello.", result["edited_text"])
		assert.Contains(t, body, "state")
	})

	t.Run("grammar", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/grammar", "")
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode(t, rec)["result"].(map[string]any)
		assert.Equal(t, "Shortened.", result["explanation"])
	})

	t.Run("suggestions", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/suggestions", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{"Add headings"}, decode(t, rec)["suggestions"])
	})

	t.Run("save", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/save", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec)["saved"])
	})

	t.Run("summary", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/summary", `{"length":"short"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "short summary", decode(t, rec)["summary"])
		assert.Equal(t, "short", stub.length)
	})

	t.Run("chat", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/chat", `{"message":"hi"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "reply to hi", decode(t, rec)["reply"])
	})

	t.Run("clear turns", func(t *testing.T) {
		rec := do(t, mux, http.MethodDelete, "/api/session/turns", "")
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, stub.cleared)
	})

	t.Run("inspect", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/documents/abc/inspect", "")
		require.Equal(t, http.StatusOK, rec.Code)
		doc := decode(t, rec)["document"].(map[string]any)
		assert.Equal(t, "abc", doc["id"])
	})

	t.Run("refresh", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/documents/refresh", "")
		require.Equal(t, http.StatusOK, rec.Code)
		var docs []models.DocumentRef
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
		assert.Len(t, docs, 1)
	})

	t.Run("bad json", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/edits", `{"instruction":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/session/edits", `{"prompt":"x"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantExtra  string
	}{
		{name: "no document", err: domain.ErrNoDocument, wantStatus: http.StatusConflict},
		{name: "validation", err: &domain.ValidationError{Message: "instruction is required"}, wantStatus: http.StatusBadRequest},
		{name: "drive credential", err: &domain.AuthError{Op: "get access token", Err: errors.New("OneDrive not connected")}, wantStatus: http.StatusServiceUnavailable, wantExtra: "upstream"},
		{name: "wrapped drive credential", err: fmt.Errorf("load document abc: %w", &domain.AuthError{Op: "download document"}), wantStatus: http.StatusServiceUnavailable, wantExtra: "upstream"},
		{name: "api token", err: domain.ErrUnauthorized, wantStatus: http.StatusUnauthorized},
		{name: "remote", err: &domain.RemoteError{Op: "upload document", Status: 423, Body: "locked"}, wantStatus: http.StatusBadGateway, wantExtra: "upstream_status"},
		{name: "format", err: &domain.FormatError{Op: "extract text", Err: errors.New("zip: not a valid zip file")}, wantStatus: http.StatusUnprocessableEntity},
		{name: "model", err: &domain.ModelError{Op: "process edit request", Kind: domain.ModelShape, Err: errors.New(`missing "explanation"`)}, wantStatus: http.StatusBadGateway, wantExtra: "kind"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestMux(&stubSession{err: tt.err})

			rec := do(t, mux, http.MethodPost, "/api/session/edits", `{"instruction":"x"}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

			body := decode(t, rec)
			assert.EqualValues(t, tt.wantStatus, body["status"])
			if tt.wantExtra != "" {
				assert.Contains(t, body, tt.wantExtra)
			}
			if tt.name == "unknown" {
				assert.Equal(t, "internal server error", body["detail"])
			}
		})
	}
}
