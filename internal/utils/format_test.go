package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 B"},
		{512, "512.0 B"},
		{1536, "1.5 KB"},
		{5 << 20, "5.0 MB"},
		{3 << 30, "3.0 GB"},
		{2048 << 30, "2048.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.size), "size %d", tt.size)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("", 10))
	assert.Equal(t, "short.docx", Truncate("short.docx", 10))
	assert.Equal(t, "quarterly-...", Truncate("quarterly-report-final.docx", 13))
	assert.Equal(t, "résu...", Truncate("résumé draft", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "No content", FormatForDisplay("", 500))
	assert.Equal(t, "No content", FormatForDisplay(" \n\n ", 500))
	assert.Equal(t, "Hello", FormatForDisplay("  Hello\n", 500))
	assert.Equal(t, "Hello...", FormatForDisplay("Hello world", 5))
}

func TestParseTableContent(t *testing.T) {
	text := "Intro\nName | Qty | Unit\nApple | 3 | kg\nnot a | row\nA | B | C"

	tables := ParseTableContent(text)

	assert.Equal(t, [][][]string{
		{{"Name", "Qty", "Unit"}, {"Apple", "3", "kg"}},
		{{"A", "B", "C"}},
	}, tables)
	assert.Empty(t, ParseTableContent("plain text"))
}

func TestFormatConversationHistory(t *testing.T) {
	assert.Equal(t, "No conversation history", FormatConversationHistory(nil))

	stamp := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	out := FormatConversationHistory([]models.EditTurn{
		{Role: models.RoleUser, Content: "make it shorter", Timestamp: stamp},
		{Role: models.RoleAssistant, Content: "Shortened."},
	})

	lines := strings.Split(out, "\n")
	assert.Equal(t, "1. [USER] make it shorter", lines[0])
	assert.Equal(t, "   Time: 2024-03-01 09:30:00", lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "2. [ASSISTANT] Shortened.", lines[3])
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "", FormatTimestamp(time.Time{}))
	assert.Equal(t, "2024-12-31 23:59:59", FormatTimestamp(time.Date(2024, 12, 31, 23, 59, 59, 0, time.Local)))
}
