package driven

import (
	"context"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// PageExtractor produces ordered per-page text from a local file.
// Extraction is best effort: a page that yields no text comes back
// empty rather than failing the document. Token-exact extraction is out
// of scope.
type PageExtractor interface {
	// ExtractPages reads the file and returns its pages in order,
	// 1-based.
	ExtractPages(ctx context.Context, path string) ([]domain.Page, error)
}
