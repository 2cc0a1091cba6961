package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seongbear/document-edit-ai/internal/domain"
	llmSvc "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
)

// fakeProvider returns a canned reply and records the last request.
type fakeProvider struct {
	reply string
	err   error
	last  *llmSvc.GenerateRequest
}

func (f *fakeProvider) GenerateResponse(_ context.Context, req *llmSvc.GenerateRequest) (*llmSvc.GenerateResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llmSvc.GenerateResponse{Text: f.reply, Model: req.Model}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) SupportsModel(string) bool { return true }

func newTestAssistant(t *testing.T, provider *fakeProvider) llmSvc.EditAssistant {
	t.Helper()
	prompts, err := NewPromptRegistry()
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAssistant(provider, "test-model", prompts, logger)
}

func TestAssistant_ProcessEditRequest(t *testing.T) {
	provider := &fakeProvider{
		reply: `{"edited_content":"Hello.","explanation":"Added a period","changes_summary":"punctuation"}`,
	}
	assistant := newTestAssistant(t, provider)

	result, err := assistant.ProcessEditRequest(context.Background(), "Hello world", "Add a period")
	require.NoError(t, err)
	assert.Equal(t, "Hello.", result.EditedText)
	assert.Equal(t, "Added a period", result.Explanation)
	assert.Equal(t, "punctuation", result.ChangesSummary)

	require.NotNil(t, provider.last)
	assert.Equal(t, "test-model", provider.last.Model)
	assert.True(t, provider.last.JSON)
	assert.Contains(t, provider.last.System, "edited_content")
	assert.Contains(t, provider.last.Prompt, "Hello world")
	assert.Contains(t, provider.last.Prompt, "User Request: Add a period")
}

func TestAssistant_ProcessEditRequestFencedReply(t *testing.T) {
	provider := &fakeProvider{
		reply: "```json\n{\"edited_content\":\"A\",\"explanation\":\"B\"}\n```",
	}
	assistant := newTestAssistant(t, provider)

	result, err := assistant.ProcessEditRequest(context.Background(), "x", "y")
	require.NoError(t, err)
	assert.Equal(t, "A", result.EditedText)
	assert.Equal(t, "B", result.Explanation)
	assert.Empty(t, result.ChangesSummary)
}

func TestAssistant_ProcessEditRequestFailures(t *testing.T) {
	tests := []struct {
		name     string
		reply    string
		err      error
		wantKind domain.ModelFailure
	}{
		{name: "transport", err: errors.New("connection reset"), wantKind: domain.ModelTransport},
		{name: "empty", reply: "   ", wantKind: domain.ModelEmpty},
		{name: "not json", reply: "Sure! Here is your edit.", wantKind: domain.ModelMalformed},
		{name: "truncated json", reply: `{"edited_content":"A"`, wantKind: domain.ModelMalformed},
		{name: "array", reply: `["A","B"]`, wantKind: domain.ModelShape},
		{name: "missing edited_content", reply: `{"explanation":"B"}`, wantKind: domain.ModelShape},
		{name: "missing explanation", reply: `{"edited_content":"A"}`, wantKind: domain.ModelShape},
		{name: "non-string content", reply: `{"edited_content":42,"explanation":"B"}`, wantKind: domain.ModelShape},
		{name: "null content", reply: `{"edited_content":null,"explanation":"B"}`, wantKind: domain.ModelShape},
		{name: "null explanation", reply: `{"edited_content":"A","explanation":null}`, wantKind: domain.ModelShape},
		{name: "both null", reply: `{"edited_content":null,"explanation":null}`, wantKind: domain.ModelShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assistant := newTestAssistant(t, &fakeProvider{reply: tt.reply, err: tt.err})

			result, err := assistant.ProcessEditRequest(context.Background(), "doc", "edit")
			assert.Nil(t, result)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrModel)

			var modelErr *domain.ModelError
			require.ErrorAs(t, err, &modelErr)
			assert.Equal(t, tt.wantKind, modelErr.Kind)
			assert.Equal(t, "process edit request", modelErr.Op)
		})
	}
}

func TestAssistant_FixGrammarAndStyle(t *testing.T) {
	provider := &fakeProvider{reply: `{"edited_content":"It is.","explanation":"Fixed agreement"}`}
	assistant := newTestAssistant(t, provider)

	result, err := assistant.FixGrammarAndStyle(context.Background(), "It are.")
	require.NoError(t, err)
	assert.Equal(t, "It is.", result.EditedText)
	assert.Contains(t, provider.last.Prompt, "fix any grammar mistakes")
}

func TestAssistant_AnalyzeDocument(t *testing.T) {
	provider := &fakeProvider{reply: `{
		"word_count": 120,
		"document_type": "report",
		"tone": "formal",
		"structure_analysis": "Three sections",
		"improvement_suggestions": ["Add a summary", 7],
		"key_topics": ["budget"]
	}`}
	assistant := newTestAssistant(t, provider)

	analysis, err := assistant.AnalyzeDocument(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 120, analysis.WordCount)
	assert.Equal(t, "report", analysis.DocumentType)
	assert.Equal(t, "formal", analysis.Tone)
	assert.Equal(t, "Three sections", analysis.StructureAnalysis)
	assert.Equal(t, []string{"Add a summary"}, analysis.ImprovementSuggestions)
	assert.Equal(t, []string{"budget"}, analysis.KeyTopics)
	assert.True(t, provider.last.JSON)
}

func TestAssistant_AnalyzeDocumentLenientFields(t *testing.T) {
	assistant := newTestAssistant(t, &fakeProvider{reply: `{"word_count":"about 100","tone":3}`})

	analysis, err := assistant.AnalyzeDocument(context.Background(), "text")
	require.NoError(t, err)
	assert.Zero(t, analysis.WordCount)
	assert.Empty(t, analysis.Tone)
	assert.NotNil(t, analysis.ImprovementSuggestions)
	assert.NotNil(t, analysis.KeyTopics)
}

func TestAssistant_AnalyzeDocumentMalformed(t *testing.T) {
	assistant := newTestAssistant(t, &fakeProvider{reply: "not json"})

	_, err := assistant.AnalyzeDocument(context.Background(), "text")
	var modelErr *domain.ModelError
	require.ErrorAs(t, err, &modelErr)
	assert.Equal(t, domain.ModelMalformed, modelErr.Kind)
}

func TestAssistant_SuggestImprovements(t *testing.T) {
	assistant := newTestAssistant(t, &fakeProvider{reply: `{"improvement_suggestions":["Shorter sentences"]}`})

	suggestions, err := assistant.SuggestImprovements(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shorter sentences"}, suggestions)
}

func TestAssistant_Summarize(t *testing.T) {
	tests := []struct {
		length string
		want   string
	}{
		{length: "short", want: "in 2-3 sentences"},
		{length: "long", want: "in 3-4 paragraphs with key details"},
		{length: "unknown", want: "in 1-2 paragraphs"},
	}

	for _, tt := range tests {
		t.Run(tt.length, func(t *testing.T) {
			provider := &fakeProvider{reply: "  A short summary.\n"}
			assistant := newTestAssistant(t, provider)

			summary, err := assistant.Summarize(context.Background(), "Body", tt.length)
			require.NoError(t, err)
			assert.Equal(t, "A short summary.", summary)
			assert.Contains(t, provider.last.Prompt, tt.want)
			assert.False(t, provider.last.JSON)
		})
	}
}

func TestAssistant_GeneralChatResponse(t *testing.T) {
	t.Run("with document context", func(t *testing.T) {
		provider := &fakeProvider{reply: "Yes."}
		assistant := newTestAssistant(t, provider)

		reply, err := assistant.GeneralChatResponse(context.Background(), "Is this clear?", "Doc")
		require.NoError(t, err)
		assert.Equal(t, "Yes.", reply)
		assert.Equal(t, "Context: Doc\n\nUser question: Is this clear?", provider.last.Prompt)
	})

	t.Run("without document", func(t *testing.T) {
		provider := &fakeProvider{reply: "Hi."}
		assistant := newTestAssistant(t, provider)

		_, err := assistant.GeneralChatResponse(context.Background(), "Hello", "")
		require.NoError(t, err)
		assert.Equal(t, "Hello", provider.last.Prompt)
	})

	t.Run("transport failure", func(t *testing.T) {
		assistant := newTestAssistant(t, &fakeProvider{err: errors.New("timeout")})

		_, err := assistant.GeneralChatResponse(context.Background(), "Hello", "")
		assert.ErrorIs(t, err, domain.ErrModel)
	})
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{in: "```{\"a\":1}```", want: "```{\"a\":1}```"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFence(tt.in))
	}
}
