package converter

import (
	"fmt"
	"strings"

	"github.com/seongbear/document-edit-ai/internal/domain"
	"github.com/seongbear/document-edit-ai/internal/domain/models"
	docsysSvc "github.com/seongbear/document-edit-ai/internal/domain/services/docsystem"
)

const (
	// ChunkSeparator separates paragraphs and table rows in document text.
	ChunkSeparator = "\n\n"

	// CellSeparator joins the cells of one table row.
	CellSeparator = " | "
)

// docxConverter converts Word documents to document text and back on top
// of go-docx. Only paragraph text and table cell text survive; formatting,
// images, headers and footers are dropped.
type docxConverter struct{}

// NewDocxConverter creates a new .docx codec.
func NewDocxConverter() docsysSvc.DocumentCodec {
	return &docxConverter{}
}

// ExtractText projects paragraphs and table rows in document order.
func (c *docxConverter) ExtractText(data []byte) (string, error) {
	body, err := readBody(data)
	if err != nil {
		return "", &domain.FormatError{Op: "extract text", Err: err}
	}

	var out []string
	for _, blk := range body.blocks {
		switch {
		case blk.para != nil:
			if text := strings.TrimSpace(blk.para.text); text != "" {
				out = append(out, text)
			}
		case blk.table != nil:
			for _, row := range blk.table.rows {
				if line := rowText(row); line != "" {
					out = append(out, line)
				}
			}
		}
	}
	return strings.Join(out, ChunkSeparator), nil
}

// rowText joins the non-empty trimmed cells of a row.
func rowText(row []string) string {
	var cells []string
	for _, cell := range row {
		if text := strings.TrimSpace(cell); text != "" {
			cells = append(cells, text)
		}
	}
	return strings.Join(cells, CellSeparator)
}

// CreateDocument builds a fresh document from text. Chunks that look like
// table rows become one-row tables; everything else becomes a paragraph.
func (c *docxConverter) CreateDocument(text string) ([]byte, error) {
	doc := newDocument()
	for _, chunk := range chunks(text) {
		if IsTableRow(chunk) {
			addTableRow(doc, SplitCells(chunk))
		} else {
			addParagraph(doc, chunk)
		}
	}

	data, err := writePackage(doc)
	if err != nil {
		return nil, &domain.FormatError{Op: "create document", Err: err}
	}
	return data, nil
}

// ExtractStructure reports paragraphs, headings and tables.
func (c *docxConverter) ExtractStructure(data []byte) (*models.Structure, error) {
	body, err := readBody(data)
	if err != nil {
		return nil, &domain.FormatError{Op: "extract document structure", Err: err}
	}

	paras := body.paragraphs()
	structure := &models.Structure{
		Paragraphs:     []models.ParagraphInfo{},
		Headings:       []models.HeadingInfo{},
		Tables:         []models.TableInfo{},
		ParagraphCount: len(paras),
	}

	for i, p := range paras {
		text := strings.TrimSpace(p.text)
		if text == "" {
			continue
		}
		style := body.styles.Name(p.styleID)
		info := models.ParagraphInfo{
			Index:     i,
			Text:      text,
			Style:     style,
			WordCount: len(strings.Fields(text)),
		}
		structure.Paragraphs = append(structure.Paragraphs, info)
		structure.WordCount += info.WordCount

		if strings.Contains(style, "Heading") {
			structure.Headings = append(structure.Headings, models.HeadingInfo{
				Level: style,
				Text:  text,
				Index: i,
			})
		}
	}

	for i, tbl := range body.tables() {
		info := models.TableInfo{
			Index:   i,
			Rows:    len(tbl.rows),
			Cols:    tableCols(tbl),
			Content: make([][]string, 0, len(tbl.rows)),
		}
		for _, row := range tbl.rows {
			cells := make([]string, len(row))
			for j, cell := range row {
				cells[j] = strings.TrimSpace(cell)
				structure.WordCount += len(strings.Fields(cells[j]))
			}
			info.Content = append(info.Content, cells)
		}
		structure.Tables = append(structure.Tables, info)
	}

	return structure, nil
}

// tableCols prefers the declared grid and falls back to the widest row.
func tableCols(tbl table) int {
	if len(tbl.rows) == 0 {
		return 0
	}
	if tbl.gridCols > 0 {
		return tbl.gridCols
	}
	widest := 0
	for _, row := range tbl.rows {
		widest = max(widest, len(row))
	}
	return widest
}

// Validate checks that the document opens and has some text.
func (c *docxConverter) Validate(data []byte) models.ValidationReport {
	body, err := readBody(data)
	if err != nil {
		return models.ValidationReport{
			Valid:  false,
			Errors: []string{fmt.Sprintf("Document validation failed: %v", err)},
		}
	}

	report := models.ValidationReport{
		ParagraphCount: len(body.paragraphs()),
		TableCount:     len(body.tables()),
		Errors:         []string{},
	}
	report.HasContent = hasContent(body)
	if !report.HasContent {
		report.Errors = append(report.Errors, "Document appears to be empty")
	}
	report.Valid = len(report.Errors) == 0
	return report
}

func hasContent(body *docBody) bool {
	for _, p := range body.paragraphs() {
		if strings.TrimSpace(p.text) != "" {
			return true
		}
	}
	for _, tbl := range body.tables() {
		for _, row := range tbl.rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					return true
				}
			}
		}
	}
	return false
}

// Name returns the converter name for logging.
func (c *docxConverter) Name() string {
	return "docx"
}

// IsTableRow reports whether a chunk is read as a table row.
func IsTableRow(chunk string) bool {
	return strings.Count(chunk, "|") >= 2
}

// SplitCells splits a table-row chunk on "|" and trims each cell.
// Empty cells are kept.
func SplitCells(chunk string) []string {
	cells := strings.Split(chunk, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// Normalize splits text into chunks, trims them, drops empty ones and
// re-joins them. Extracting a created document yields normalized text.
func Normalize(text string) string {
	return strings.Join(chunks(text), ChunkSeparator)
}

func chunks(text string) []string {
	var out []string
	for _, chunk := range strings.Split(text, ChunkSeparator) {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}
