package docsystem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentAnalyzer_Analyze(t *testing.T) {
	analyzer := NewContentAnalyzer()

	tests := []struct {
		name         string
		text         string
		wantValid    bool
		wantWords    int
		wantParas    int
		wantErrors   int
		wantWarnings int
	}{
		{name: "empty", text: "", wantValid: false, wantErrors: 1},
		{name: "short", text: "Hello world.\n\nSecond paragraph.", wantValid: true, wantWords: 4, wantParas: 2, wantWarnings: 1},
		{name: "blank chunks are not paragraphs", text: "\n\nFirst\n\n   \n\n\n\nSecond\n\n", wantValid: true, wantWords: 2, wantParas: 2, wantWarnings: 1},
		{name: "normal", text: strings.Repeat("word ", 50), wantValid: true, wantWords: 50, wantParas: 1},
		{name: "too many words", text: strings.Repeat("a ", 10001), wantValid: true, wantWords: 10001, wantParas: 1, wantWarnings: 1},
		{name: "too long", text: strings.Repeat("abcdefghij", 10001), wantValid: false, wantWords: 1, wantParas: 1, wantErrors: 1, wantWarnings: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := analyzer.Analyze(tt.text)
			assert.Equal(t, tt.wantValid, stats.Valid)
			assert.Equal(t, tt.wantWords, stats.Words)
			assert.Equal(t, tt.wantParas, stats.Paragraphs)
			assert.Len(t, stats.Errors, tt.wantErrors)
			assert.Len(t, stats.Warnings, tt.wantWarnings)
		})
	}
}

func TestContentAnalyzer_CountsRunes(t *testing.T) {
	stats := NewContentAnalyzer().Analyze("héllo wörld")
	assert.Equal(t, 11, stats.Characters)
	assert.Equal(t, 2, stats.Words)
}
