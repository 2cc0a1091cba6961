package models

import (
	"time"
)

// DocumentRef identifies a Word document in the drive.
// Produced by listing and replaced wholesale on refresh.
type DocumentRef struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified,omitempty"` // zero = unknown
	WebURL       string    `json:"web_url,omitempty"`
	DownloadURL  string    `json:"download_url,omitempty"` // short-lived pre-authenticated link
}

// HasLastModified reports whether the drive supplied a modification time.
func (d DocumentRef) HasLastModified() bool {
	return !d.LastModified.IsZero()
}

// ValidationReport is the structural health check of a document blob.
type ValidationReport struct {
	Valid          bool     `json:"valid"`
	ParagraphCount int      `json:"paragraph_count"`
	TableCount     int      `json:"table_count"`
	HasContent     bool     `json:"has_content"`
	Errors         []string `json:"errors"`
}

// TextStats summarises extracted document text.
type TextStats struct {
	Valid      bool     `json:"valid"`
	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	Words      int      `json:"words"`
	Characters int      `json:"characters"`
	Paragraphs int      `json:"paragraphs"`
}
