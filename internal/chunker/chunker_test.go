package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSplit_Empty tests that blank input produces no chunks
func TestSplit_Empty(t *testing.T) {
	s := New()

	for _, text := range []string{"", "   ", "\n\n\t"} {
		chunks, dropped := s.Split(text)
		assert.Empty(t, chunks)
		assert.Zero(t, dropped)
	}
}

// TestSplit_ShortTextSingleChunk tests that text within the target size
// comes back whole
func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := New()
	text := "Redox titration measures electron transfer between species."

	chunks, dropped := s.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
	assert.Zero(t, dropped)
}

// TestSplit_Deterministic tests that identical input yields identical
// output sequences across calls
func TestSplit_Deterministic(t *testing.T) {
	s := New(WithTargetSize(2000), WithOverlap(200))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 400)

	first, firstDropped := s.Split(text)
	second, secondDropped := s.Split(text)

	assert.Equal(t, first, second)
	assert.Equal(t, firstDropped, secondDropped)
	assert.NotEmpty(t, first)
}

// TestSplit_RespectsTargetSize tests the chunk size bound
func TestSplit_RespectsTargetSize(t *testing.T) {
	s := New(WithTargetSize(100), WithOverlap(10))
	text := strings.Repeat("Lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 50)

	chunks, _ := s.Split(text)

	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 100, "chunk %d exceeds target size", i)
	}
}

// TestSplit_PrefersParagraphBreaks tests separator priority: a text
// with paragraph breaks splits on them, not mid-sentence
func TestSplit_PrefersParagraphBreaks(t *testing.T) {
	para1 := strings.Repeat("First paragraph sentence one. ", 4)
	para2 := strings.Repeat("Second paragraph sentence two. ", 4)
	text := strings.TrimSpace(para1) + "\n\n" + strings.TrimSpace(para2)

	s := New(WithTargetSize(140), WithOverlap(0))
	chunks, _ := s.Split(text)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasPrefix(chunks[0], "First paragraph"))
	for _, c := range chunks {
		assert.NotContains(t, c, "\n\n", "paragraph break should separate chunks")
	}
}

// TestSplit_Overlap tests that adjacent chunks share boundary text
func TestSplit_Overlap(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon zeta eta theta. ", 30)

	s := New(WithTargetSize(120), WithOverlap(60))
	chunks, _ := s.Split(text)

	require.Greater(t, len(chunks), 1)
	// Each chunk begins with text already seen at the tail of its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		head := chunks[i][:30]
		assert.Contains(t, chunks[i-1], head, "chunk %d should overlap its predecessor", i)
	}
}

// TestSplit_DropsUndersizedChunks tests the minimum length filter
func TestSplit_DropsUndersizedChunks(t *testing.T) {
	// The sole paragraph under 20 characters must be dropped and
	// counted.
	text := strings.Repeat("This paragraph is comfortably long enough to keep around. ", 10) +
		"\n\nTiny bit.\n\n" +
		strings.Repeat("Another comfortably long paragraph follows the tiny one here. ", 10)

	s := New(WithTargetSize(200), WithOverlap(0), WithMinLength(20))
	chunks, dropped := s.Split(text)

	require.NotEmpty(t, chunks)
	assert.GreaterOrEqual(t, dropped, 1)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, utf8.RuneCountInString(c), 20)
	}
}

// TestSplit_NoSeparators tests the raw character fallback for unbroken
// text
func TestSplit_NoSeparators(t *testing.T) {
	text := strings.Repeat("x", 1200)

	s := New(WithTargetSize(500), WithOverlap(50))
	chunks, _ := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 500)
	}
	// Every input character is covered.
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, 1200)
}

// TestSplit_MultiByte tests rune-safe splitting of non-ASCII text
func TestSplit_MultiByte(t *testing.T) {
	text := strings.Repeat("日本語のテキストを分割する。", 100)

	s := New(WithTargetSize(80), WithOverlap(8))
	chunks, _ := s.Split(text)

	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c))
		assert.LessOrEqual(t, utf8.RuneCountInString(c), 80)
	}
}

// TestNew_ClampsOverlap tests that an overlap at or above the target
// size is reduced instead of looping forever
func TestNew_ClampsOverlap(t *testing.T) {
	s := New(WithTargetSize(100), WithOverlap(100))
	assert.Less(t, s.Overlap(), s.TargetSize())

	chunks, _ := s.Split(strings.Repeat("word ", 200))
	assert.NotEmpty(t, chunks)
}
