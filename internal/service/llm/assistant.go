package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	llmSvc "github.com/seongbear/document-edit-ai/internal/domain/services/llm"
)

// Assistant implements llmSvc.EditAssistant over a single provider binding.
// It holds no conversation state; every call carries the full document.
type Assistant struct {
	provider llmSvc.Provider
	model    string
	prompts  *PromptRegistry
	logger   *slog.Logger
}

// NewAssistant creates an edit assistant for the given provider and model
func NewAssistant(provider llmSvc.Provider, model string, prompts *PromptRegistry, logger *slog.Logger) llmSvc.EditAssistant {
	return &Assistant{
		provider: provider,
		model:    model,
		prompts:  prompts,
		logger:   logger,
	}
}

// editReply is the JSON object the edit directive asks for
type editReply struct {
	EditedContent  string `json:"edited_content"`
	Explanation    string `json:"explanation"`
	ChangesSummary string `json:"changes_summary"`
}

// ProcessEditRequest asks the model to apply an instruction and return the whole edited text.
func (a *Assistant) ProcessEditRequest(ctx context.Context, documentText, instruction string) (*models.EditResult, error) {
	return a.edit(ctx, "process edit request", documentText, instruction)
}

// FixGrammarAndStyle is an edit with a fixed instruction.
func (a *Assistant) FixGrammarAndStyle(ctx context.Context, documentText string) (*models.EditResult, error) {
	directive, err := a.prompts.Get(DirectiveFixGrammar)
	if err != nil {
		return nil, err
	}
	return a.edit(ctx, "fix grammar and style", documentText, directive.Instruction)
}

func (a *Assistant) edit(ctx context.Context, op, documentText, instruction string) (*models.EditResult, error) {
	fields, err := a.requestObject(ctx, op, DirectiveEdit, PromptData{
		Document:    documentText,
		Instruction: instruction,
	})
	if err != nil {
		return nil, err
	}

	var reply editReply
	for _, key := range []string{"edited_content", "explanation"} {
		raw, ok := fields[key]
		if !ok {
			return nil, &domain.ModelError{Op: op, Kind: domain.ModelShape, Err: fmt.Errorf("missing %q", key)}
		}
		// null decodes into a nil pointer and is rejected like any non-string
		var value *string
		if err := json.Unmarshal(raw, &value); err != nil || value == nil {
			return nil, &domain.ModelError{Op: op, Kind: domain.ModelShape, Err: fmt.Errorf("%q is not a string", key)}
		}
		if key == "edited_content" {
			reply.EditedContent = *value
		} else {
			reply.Explanation = *value
		}
	}
	if raw, ok := fields["changes_summary"]; ok {
		// optional; a non-string summary is dropped
		_ = json.Unmarshal(raw, &reply.ChangesSummary)
	}

	return &models.EditResult{
		EditedText:     reply.EditedContent,
		Explanation:    reply.Explanation,
		ChangesSummary: reply.ChangesSummary,
	}, nil
}

// AnalyzeDocument asks for a structured read of the document. Fields the
// model leaves out or mistypes are left empty.
func (a *Assistant) AnalyzeDocument(ctx context.Context, documentText string) (*models.DocumentAnalysis, error) {
	const op = "analyze document"

	fields, err := a.requestObject(ctx, op, DirectiveAnalyze, PromptData{Document: documentText})
	if err != nil {
		return nil, err
	}

	analysis := &models.DocumentAnalysis{
		WordCount:              lenientInt(fields["word_count"]),
		DocumentType:           lenientString(fields["document_type"]),
		Tone:                   lenientString(fields["tone"]),
		StructureAnalysis:      lenientString(fields["structure_analysis"]),
		ImprovementSuggestions: lenientStrings(fields["improvement_suggestions"]),
		KeyTopics:              lenientStrings(fields["key_topics"]),
	}
	return analysis, nil
}

// SuggestImprovements returns the suggestions part of an analysis.
func (a *Assistant) SuggestImprovements(ctx context.Context, documentText string) ([]string, error) {
	analysis, err := a.AnalyzeDocument(ctx, documentText)
	if err != nil {
		return nil, fmt.Errorf("suggest improvements: %w", err)
	}
	return analysis.ImprovementSuggestions, nil
}

// Summarize returns a plain-text summary. A blank reply is returned as-is.
func (a *Assistant) Summarize(ctx context.Context, documentText, length string) (string, error) {
	directive, err := a.prompts.Get(DirectiveSummarize)
	if err != nil {
		return "", err
	}
	return a.requestText(ctx, "summarize document", directive, PromptData{
		Document: documentText,
		Length:   directive.LengthInstruction(length),
	})
}

// GeneralChatResponse answers a free-form message, optionally about the document.
func (a *Assistant) GeneralChatResponse(ctx context.Context, message, documentText string) (string, error) {
	directive, err := a.prompts.Get(DirectiveChat)
	if err != nil {
		return "", err
	}
	return a.requestText(ctx, "generate chat response", directive, PromptData{
		Document: documentText,
		Message:  message,
	})
}

func (a *Assistant) requestText(ctx context.Context, op string, directive *Directive, data PromptData) (string, error) {
	resp, err := a.generate(ctx, op, directive, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text), nil
}

// requestObject sends a JSON directive and returns the reply's top-level fields.
func (a *Assistant) requestObject(ctx context.Context, op, name string, data PromptData) (map[string]json.RawMessage, error) {
	directive, err := a.prompts.Get(name)
	if err != nil {
		return nil, err
	}

	resp, err := a.generate(ctx, op, directive, data)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return nil, &domain.ModelError{Op: op, Kind: domain.ModelEmpty, Err: errors.New("empty response from model")}
	}

	body := []byte(stripCodeFence(text))
	if !json.Valid(body) {
		return nil, &domain.ModelError{Op: op, Kind: domain.ModelMalformed, Err: errors.New("reply is not valid JSON")}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, &domain.ModelError{Op: op, Kind: domain.ModelShape, Err: errors.New("reply is not a JSON object")}
	}
	return fields, nil
}

func (a *Assistant) generate(ctx context.Context, op string, directive *Directive, data PromptData) (*llmSvc.GenerateResponse, error) {
	prompt, err := directive.Render(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req := &llmSvc.GenerateRequest{
		Model:  a.model,
		System: strings.TrimSpace(directive.System),
		Prompt: prompt,
		JSON:   directive.JSON,
	}

	a.logger.Debug("model request",
		"op", op,
		"provider", a.provider.Name(),
		"model", a.model,
		"prompt_chars", len(prompt),
	)

	resp, err := a.provider.GenerateResponse(ctx, req)
	if err != nil {
		a.logger.Warn("model request failed", "op", op, "provider", a.provider.Name(), "error", err)
		return nil, &domain.ModelError{Op: op, Kind: domain.ModelTransport, Err: err}
	}

	a.logger.Debug("model response",
		"op", op,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"stop_reason", resp.StopReason,
	)
	return resp, nil
}

// stripCodeFence removes a surrounding Markdown code fence, with or without a language tag.
func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	inner := strings.TrimPrefix(text, "```")
	newline := strings.IndexByte(inner, '\n')
	if newline < 0 {
		return text
	}
	inner = strings.TrimSpace(inner[newline+1:])
	inner = strings.TrimSuffix(inner, "```")
	return strings.TrimSpace(inner)
}

func lenientString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func lenientInt(raw json.RawMessage) int {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0
	}
	return int(f)
}

func lenientStrings(raw json.RawMessage) []string {
	var items []any
	out := []string{}
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
