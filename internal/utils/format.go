package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/seongbear/document-edit-ai/internal/domain/models"
)

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatFileSize renders a byte count with one decimal, e.g. "1.5 KB".
func FormatFileSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}

	value := float64(size)
	unit := 0
	for value >= 1024 && unit < len(sizeUnits)-1 {
		value /= 1024
		unit++
	}
	return fmt.Sprintf("%.1f %s", value, sizeUnits[unit])
}

// Truncate shortens text to at most maxLen runes, ending in "...".
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatForDisplay trims document text into a preview of maxLen runes
// followed by "..." when cut.
func FormatForDisplay(text string, maxLen int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "No content"
	}

	runes := []rune(text)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return text
}

// ParseTableContent groups consecutive table-like lines (two or more '|')
// into tables of trimmed cells.
func ParseTableContent(text string) [][][]string {
	var (
		tables  [][][]string
		current [][]string
	)

	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") >= 2 {
			cells := strings.Split(line, "|")
			for i, cell := range cells {
				cells[i] = strings.TrimSpace(cell)
			}
			current = append(current, cells)
			continue
		}
		if len(current) > 0 {
			tables = append(tables, current)
			current = nil
		}
	}
	if len(current) > 0 {
		tables = append(tables, current)
	}
	return tables
}

// FormatTimestamp renders a time for display; the zero time renders empty.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}

// FormatConversationHistory renders a numbered transcript of the log.
func FormatConversationHistory(turns []models.EditTurn) string {
	if len(turns) == 0 {
		return "No conversation history"
	}

	var sb strings.Builder
	for i, turn := range turns {
		fmt.Fprintf(&sb, "%d. [%s] %s\n", i+1, strings.ToUpper(turn.Role), turn.Content)
		if ts := FormatTimestamp(turn.Timestamp); ts != "" {
			fmt.Fprintf(&sb, "   Time: %s\n", ts)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
