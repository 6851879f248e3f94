// Package ingestion turns a directory of source documents into embedded,
// tagged chunks in the vector store. The pipeline is deliberately linear:
// extract text, normalize, split into word windows, tag each chunk with a
// topic and a language, embed, write. A failure in one document never stops
// the run — it is logged and counted, and the walk continues.
package ingestion

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
)

// TextExtractor pulls plain text out of a document file.
type TextExtractor interface {
	// Extract returns the full plain text of the document at path.
	Extract(path string) (string, error)
}

// PDFExtractor implements TextExtractor for PDF files. Pages that fail to
// parse individually are skipped rather than failing the whole document —
// scanned or partially corrupt PDFs are common in a community document set.
type PDFExtractor struct{}

// NewPDFExtractor returns a ready-to-use PDFExtractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Extract reads the PDF at path and concatenates the plain text of every page.
func (e *PDFExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("extract: read %s: %w", path, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("extract: open pdf %s: %w", path, err)
	}

	var buf bytes.Buffer
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the document.
			continue
		}
		buf.WriteString(text)
		buf.WriteString(" ")
	}

	return buf.String(), nil
}
