package models

// EditResult is the model's answer to an edit instruction.
type EditResult struct {
	EditedText     string `json:"edited_text"`
	Explanation    string `json:"explanation"`
	ChangesSummary string `json:"changes_summary,omitempty"`
}

// DocumentAnalysis is the model's read of a document.
type DocumentAnalysis struct {
	WordCount              int      `json:"word_count"`
	DocumentType           string   `json:"document_type"`
	Tone                   string   `json:"tone"`
	StructureAnalysis      string   `json:"structure_analysis"`
	ImprovementSuggestions []string `json:"improvement_suggestions"`
	KeyTopics              []string `json:"key_topics"`
}

// Summary lengths
const (
	SummaryShort  = "short"
	SummaryMedium = "medium"
	SummaryLong   = "long"
)
