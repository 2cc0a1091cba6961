package docsystem

import (
	"strings"
	"unicode/utf8"

	"github.com/seongbear/document-edit-ai/internal/config"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	"github.com/seongbear/document-edit-ai/internal/domain/services"
	"github.com/seongbear/document-edit-ai/internal/service/docsystem/converter"
)

const (
	shortContentWords = 10
	longContentWords  = 10000
)

type contentAnalyzerService struct{}

// NewContentAnalyzer creates a new content analyzer service
func NewContentAnalyzer() services.ContentAnalyzer {
	return &contentAnalyzerService{}
}

// CountWords counts whitespace-separated words
func (s *contentAnalyzerService) CountWords(text string) int {
	return len(strings.Fields(text))
}

// Analyze reports word, character and paragraph counts.
// Very short or very long text is a warning; text over the model input
// limit is an error.
func (s *contentAnalyzerService) Analyze(text string) models.TextStats {
	stats := models.TextStats{
		Errors:   []string{},
		Warnings: []string{},
	}
	if text == "" {
		stats.Errors = append(stats.Errors, "Content is empty")
		return stats
	}

	stats.Words = s.CountWords(text)
	stats.Characters = utf8.RuneCountInString(text)
	// paragraphs are the chunks a saved document would keep
	if normalized := converter.Normalize(text); normalized != "" {
		stats.Paragraphs = strings.Count(normalized, converter.ChunkSeparator) + 1
	}

	if stats.Words < shortContentWords {
		stats.Warnings = append(stats.Warnings, "Content is very short (less than 10 words)")
	}
	if stats.Words > longContentWords {
		stats.Warnings = append(stats.Warnings, "Content is very long (more than 10,000 words)")
	}
	if stats.Characters > config.MaxDocumentTextLength {
		stats.Errors = append(stats.Errors, "Content exceeds maximum character limit (100,000)")
	}

	stats.Valid = len(stats.Errors) == 0
	return stats
}
