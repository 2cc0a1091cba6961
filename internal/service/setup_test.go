package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/config"
)

func testConfig(graphURL string) *config.Config {
	return &config.Config{
		LLMProvider:         config.ProviderGemini,
		LLMModel:            "gemini-2.5-flash",
		GeminiAPIKey:        "test-key",
		GraphBaseURL:        graphURL,
		OneDriveAccessToken: "drive-token",
		HTTPTimeout:         5 * time.Second,
		SessionID:           "cli-session",
	}
}

func TestSetup_WiresDriveAndMemoryTranscript(t *testing.T) {
	var gotAuth string
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"value":[
			{"id":"abc","name":"report.docx","size":1536,"file":{"mimeType":"application/vnd.openxmlformats-officedocument.wordprocessingml.document"}},
			{"id":"img","name":"photo.png","size":10,"file":{"mimeType":"image/png"}}
		]}`)
	}))
	defer graph.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := Setup(context.Background(), testConfig(graph.URL), logger)
	require.NoError(t, err)
	defer app.Close()

	docs, err := app.Session.RefreshList(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "abc", docs[0].ID)
	assert.Equal(t, "Bearer drive-token", gotAuth)

	state := app.Session.State()
	assert.Equal(t, "cli-session", state.ID)
	assert.Empty(t, state.ConversationLog)
}

func TestSetup_RejectsModelOfAnotherProvider(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.LLMModel = "claude-haiku-4-5"

	_, err := Setup(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "not served by provider gemini")
}

func TestSetup_BadDatabaseURL(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.DatabaseURL = "postgres://%zz"

	_, err := Setup(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "connect transcript database")
}
