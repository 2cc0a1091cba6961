package services

import "github.com/seongbear/document-edit-ai/internal/domain/models"

// ContentAnalyzer handles content analysis operations on extracted document text
type ContentAnalyzer interface {
	// CountWords counts whitespace-separated words
	CountWords(text string) int

	// Analyze checks text against the size limits and reports counts
	Analyze(text string) models.TextStats
}
