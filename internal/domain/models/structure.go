package models

// Structure is a read-only view of a document's paragraphs, headings and tables.
type Structure struct {
	Paragraphs     []ParagraphInfo `json:"paragraphs"`
	Headings       []HeadingInfo   `json:"headings"`
	Tables         []TableInfo     `json:"tables"`
	WordCount      int             `json:"word_count"`
	ParagraphCount int             `json:"paragraph_count"`
}

type ParagraphInfo struct {
	Index     int    `json:"index"` // position among all body paragraphs
	Text      string `json:"text"`
	Style     string `json:"style"`
	WordCount int    `json:"word_count"`
}

type HeadingInfo struct {
	Level string `json:"level"` // style name, e.g. "Heading 1"
	Text  string `json:"text"`
	Index int    `json:"index"`
}

type TableInfo struct {
	Index   int        `json:"index"`
	Rows    int        `json:"rows"`
	Cols    int        `json:"cols"`
	Content [][]string `json:"content"`
}
