// Package pdf extracts page text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
	"github.com/atheneum-labs/passage/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads PDFs page by page. A page whose text cannot be
// decoded comes back empty rather than failing the document; scanned
// or image-only pages simply contribute no passages.
type Extractor struct{}

// NewExtractor creates a PDF page extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages returns the plain text of every page, 1-based.
func (e *Extractor) ExtractPages(ctx context.Context, path string) ([]domain.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	total := reader.NumPage()
	pages := make([]domain.Page, 0, total)

	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.Page{PageNumber: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("Page %d of %s: text extraction failed: %v", i, path, err)
			text = ""
		}

		pages = append(pages, domain.Page{
			PageNumber: i,
			Text:       strings.TrimSpace(text),
		})
	}

	return pages, nil
}
