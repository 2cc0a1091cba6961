package docsystem

import "github.com/seongbear/document-edit-ai/internal/domain/models"

// DocumentCodec converts between Word document bytes and plain document text.
//
// Document text is a sequence of chunks separated by a blank line ("\n\n").
// A chunk containing at least two "|" characters is a table row whose cells
// are separated by " | "; any other chunk is a paragraph.
//
// Implementations should be stateless and thread-safe.
type DocumentCodec interface {
	// ExtractText projects body paragraphs and table rows, in document order, to text.
	// Returns a *domain.FormatError if the bytes are not a readable document.
	ExtractText(data []byte) (string, error)

	// CreateDocument builds a new document from text.
	CreateDocument(text string) ([]byte, error)

	// ExtractStructure reports paragraphs with styles, headings and tables.
	ExtractStructure(data []byte) (*models.Structure, error)

	// Validate never fails; problems are reported in the result.
	Validate(data []byte) models.ValidationReport

	// Name returns a human-readable codec name for logging/debugging.
	Name() string
}
