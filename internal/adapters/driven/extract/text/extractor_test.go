package text

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestExtractPages_SinglePage(t *testing.T) {
	path := writeFile(t, "  Just one page of text.\n")

	pages, err := NewExtractor().ExtractPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 1, pages[0].PageNumber)
	assert.Equal(t, "Just one page of text.", pages[0].Text)
}

func TestExtractPages_FormFeeds(t *testing.T) {
	path := writeFile(t, "page one\fpage two\f\fpage four")

	pages, err := NewExtractor().ExtractPages(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, pages, 4)
	assert.Equal(t, "page one", pages[0].Text)
	assert.Equal(t, "page two", pages[1].Text)
	assert.Empty(t, pages[2].Text)
	assert.Equal(t, 3, pages[2].PageNumber)
	assert.Equal(t, "page four", pages[3].Text)
}

func TestExtractPages_Missing(t *testing.T) {
	_, err := NewExtractor().ExtractPages(context.Background(), "/does/not/exist.txt")
	assert.Error(t, err)
}
