// Package text extracts pages from plain-text files. Form feeds mark
// page boundaries; a file without them is a single page.
package text

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.PageExtractor = (*Extractor)(nil)

// Extractor reads UTF-8 text files.
type Extractor struct{}

// NewExtractor creates a plain-text page extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractPages splits the file on form feed characters and returns the
// resulting pages, 1-based.
func (e *Extractor) ExtractPages(_ context.Context, path string) ([]domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parts := strings.Split(string(data), "\f")
	pages := make([]domain.Page, len(parts))
	for i, part := range parts {
		pages[i] = domain.Page{
			PageNumber: i + 1,
			Text:       strings.TrimSpace(part),
		}
	}
	return pages, nil
}
