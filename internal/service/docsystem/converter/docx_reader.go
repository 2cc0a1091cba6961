package converter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

const (
	documentPart = "word/document.xml"
	stylesPart   = "word/styles.xml"
)

// docBody is the text projection of a parsed document.
// Blocks keep document order; paragraphs inside tables are not blocks.
type docBody struct {
	blocks []block
	styles styleTable
}

type block struct {
	para  *paragraph
	table *table
}

type paragraph struct {
	styleID string
	text    string
}

type table struct {
	gridCols int
	rows     [][]string // raw cell texts, untrimmed
}

func (b *docBody) paragraphs() []paragraph {
	var out []paragraph
	for _, blk := range b.blocks {
		if blk.para != nil {
			out = append(out, *blk.para)
		}
	}
	return out
}

func (b *docBody) tables() []table {
	var out []table
	for _, blk := range b.blocks {
		if blk.table != nil {
			out = append(out, *blk.table)
		}
	}
	return out
}

// readBody parses the package with go-docx and projects its body items.
// styles.xml is optional.
func readBody(data []byte) (*docBody, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}
	// Parse names the document only when the main part was present
	if doc.Document.XMLName.Local == "" {
		return nil, fmt.Errorf("missing %s", documentPart)
	}

	body := &docBody{}
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			p := toParagraph(it)
			body.blocks = append(body.blocks, block{para: &p})
		case *docx.Table:
			tbl := toTable(it)
			body.blocks = append(body.blocks, block{table: &tbl})
		}
	}

	body.styles, err = readStyles(data)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func toParagraph(p *docx.Paragraph) paragraph {
	var out paragraph
	if p.Properties != nil && p.Properties.Style != nil {
		out.styleID = p.Properties.Style.Val
	}

	var sb strings.Builder
	for _, child := range p.Children {
		switch c := child.(type) {
		case *docx.Run:
			writeRunText(&sb, c)
		case *docx.Hyperlink:
			writeRunText(&sb, &c.Run)
		}
	}
	out.text = sb.String()
	return out
}

func writeRunText(sb *strings.Builder, r *docx.Run) {
	for _, child := range r.Children {
		switch c := child.(type) {
		case *docx.Text:
			sb.WriteString(c.Text)
		case *docx.Tab:
			sb.WriteByte('\t')
		case *docx.BarterRabbet:
			// page and column breaks carry no text
			if c.Type == "" || c.Type == "textWrapping" {
				sb.WriteByte('\n')
			}
		}
	}
}

// toTable keeps each cell's own paragraphs joined by newlines.
// Nested tables contribute no text.
func toTable(t *docx.Table) table {
	var out table
	if t.TableGrid != nil {
		out.gridCols = len(t.TableGrid.GridCols)
	}
	for _, tr := range t.TableRows {
		row := make([]string, 0, len(tr.TableCells))
		for _, tc := range tr.TableCells {
			lines := make([]string, 0, len(tc.Paragraphs))
			for _, p := range tc.Paragraphs {
				lines = append(lines, toParagraph(p).text)
			}
			row = append(row, strings.Join(lines, "\n"))
		}
		out.rows = append(out.rows, row)
	}
	return out
}

// styleTable maps paragraph style ids to display names.
type styleTable struct {
	names        map[string]string
	defaultStyle string
}

// Name resolves a paragraph's style id. Paragraphs without a style use the
// document default; ids missing from styles.xml are returned as-is.
func (s styleTable) Name(styleID string) string {
	if styleID == "" {
		if s.defaultStyle != "" {
			return s.defaultStyle
		}
		return "Normal"
	}
	if name, ok := s.names[styleID]; ok {
		return name
	}
	return styleID
}

type xmlStyles struct {
	Styles []struct {
		Type    string `xml:"type,attr"`
		Default string `xml:"default,attr"`
		StyleID string `xml:"styleId,attr"`
		Name    struct {
			Val string `xml:"val,attr"`
		} `xml:"name"`
	} `xml:"style"`
}

// readStyles loads the paragraph style names. go-docx passes styles.xml
// through untouched, so the part is read straight from the package.
func readStyles(data []byte) (styleTable, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return styleTable{}, fmt.Errorf("open package: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != stylesPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return styleTable{}, fmt.Errorf("open %s: %w", stylesPart, err)
		}
		defer rc.Close()

		var doc xmlStyles
		if err := xml.NewDecoder(rc).Decode(&doc); err != nil {
			return styleTable{}, fmt.Errorf("parse %s: %w", stylesPart, err)
		}
		return newStyleTable(doc), nil
	}
	return styleTable{}, nil
}

func newStyleTable(doc xmlStyles) styleTable {
	st := styleTable{names: make(map[string]string, len(doc.Styles))}
	for _, s := range doc.Styles {
		if s.Type != "" && s.Type != "paragraph" {
			continue
		}
		name := displayStyleName(s.Name.Val)
		if name == "" {
			name = s.StyleID
		}
		st.names[s.StyleID] = name
		if s.Default == "1" || s.Default == "true" {
			st.defaultStyle = name
		}
	}
	return st
}

// Word stores some built-in style names in lowercase ("heading 1") and shows
// them capitalised.
var builtinStyleNames = map[string]string{
	"normal":   "Normal",
	"title":    "Title",
	"subtitle": "Subtitle",
	"caption":  "Caption",
	"header":   "Header",
	"footer":   "Footer",
}

func displayStyleName(name string) string {
	if ui, ok := builtinStyleNames[name]; ok {
		return ui
	}
	if rest, ok := strings.CutPrefix(name, "heading "); ok {
		return "Heading " + rest
	}
	return name
}
