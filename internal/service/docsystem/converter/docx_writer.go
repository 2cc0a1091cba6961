package converter

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"
)

// usable width of a Letter page with one-inch margins, in twentieths of a point
const textWidthTwips = 9360

// newDocument starts a package from the library's default template, which
// supplies styles, theme, fonts and content types.
func newDocument() *docx.Docx {
	return docx.New().WithDefaultTheme()
}

// addParagraph appends one paragraph. AddText turns newlines into line
// breaks and tabs into tab runs.
func addParagraph(doc *docx.Docx, text string) {
	p := doc.AddParagraph()
	if text != "" {
		p.AddText(text)
	}
}

// addTableRow appends a single-row table with evenly split columns.
func addTableRow(doc *docx.Docx, cells []string) {
	widths := make([]int64, len(cells))
	for i := range widths {
		widths[i] = int64(textWidthTwips / len(cells))
	}

	tbl := doc.AddTableTwips([]int64{0}, widths, 0, nil)
	for i, cell := range tbl.TableRows[0].TableCells {
		p := cell.AddParagraph()
		if cells[i] != "" {
			p.AddText(cells[i])
		}
	}
}

func writePackage(doc *docx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write package: %w", err)
	}
	return buf.Bytes(), nil
}
