// Package chunker splits raw page text into overlapping passages of
// bounded size. Splitting is deterministic: identical input always
// yields the identical chunk sequence, which keeps re-ingestion
// idempotent.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// Default configuration values, matching the indexing defaults of the
// engine.
const (
	// DefaultTargetSize is the upper bound on chunk length in
	// characters.
	DefaultTargetSize = 500

	// DefaultOverlap is the number of characters shared between
	// adjacent chunks.
	DefaultOverlap = 50

	// DefaultMinLength drops trimmed chunks shorter than this. Tiny
	// fragments embed poorly and pollute search results.
	DefaultMinLength = 20
)

// DefaultSeparators is the split priority: paragraph breaks first, then
// line breaks, sentence-ending punctuation, spaces and finally raw
// characters. The splitter always prefers the earliest separator that
// yields chunks within the target size.
var DefaultSeparators = []string{"\n\n", "\n", ". ", "! ", "? ", " ", ""}

// Splitter splits text into chunks. It holds only configuration; Split
// carries no state between calls and is safe for concurrent use.
type Splitter struct {
	targetSize int
	overlap    int
	minLength  int
	separators []string
}

// Option configures the splitter.
type Option func(*Splitter)

// WithTargetSize sets the chunk size bound in characters.
func WithTargetSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.targetSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// WithMinLength sets the minimum trimmed chunk length.
func WithMinLength(min int) Option {
	return func(s *Splitter) {
		if min >= 0 {
			s.minLength = min
		}
	}
}

// WithSeparators overrides the separator priority list. The final entry
// should be "" so arbitrarily long unbroken text can still be split.
func WithSeparators(seps []string) Option {
	return func(s *Splitter) {
		if len(seps) > 0 {
			s.separators = seps
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		targetSize: DefaultTargetSize,
		overlap:    DefaultOverlap,
		minLength:  DefaultMinLength,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content in every chunk.
	if s.overlap >= s.targetSize {
		s.overlap = s.targetSize / 10
	}

	return s
}

// TargetSize returns the configured chunk size bound.
func (s *Splitter) TargetSize() int {
	return s.targetSize
}

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split chunks the text. It returns the kept chunks, trimmed, plus the
// number of candidate chunks dropped for falling below the minimum
// length. Blank input yields no chunks and no error.
func (s *Splitter) Split(text string) ([]string, int) {
	if strings.TrimSpace(text) == "" {
		return nil, 0
	}

	raw := s.split(text, s.separators)

	chunks := make([]string, 0, len(raw))
	dropped := 0
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if utf8.RuneCountInString(c) < s.minLength {
			dropped++
			continue
		}
		chunks = append(chunks, c)
	}
	return chunks, dropped
}

// split recursively breaks text using the earliest separator present,
// then merges the pieces back into chunks within the target size.
func (s *Splitter) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= s.targetSize {
		return []string{text}
	}

	// Pick the first separator that occurs in the text. The empty
	// separator always applies and falls back to fixed rune windows.
	sep := ""
	var rest []string
	for i, cand := range separators {
		if cand == "" {
			sep = ""
			rest = nil
			break
		}
		if strings.Contains(text, cand) {
			sep = cand
			rest = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return splitRunes(text, s.targetSize, s.overlap)
	}

	// SplitAfter keeps the separator attached, so joining pieces back
	// reproduces the original text exactly.
	pieces := strings.SplitAfter(text, sep)

	var out []string
	var window []string
	windowLen := 0

	flush := func() {
		if windowLen == 0 {
			return
		}
		out = append(out, strings.Join(window, ""))
	}

	// Slide the window forward, retaining trailing pieces within the
	// overlap budget so adjacent chunks share boundary context.
	carry := func(next int) {
		for windowLen > s.overlap || (windowLen > 0 && windowLen+next > s.targetSize) {
			windowLen -= utf8.RuneCountInString(window[0])
			window = window[1:]
		}
	}

	for _, piece := range pieces {
		pieceLen := utf8.RuneCountInString(piece)

		if pieceLen > s.targetSize {
			// Oversized piece: emit what we have, then recurse with the
			// remaining separators.
			flush()
			window = nil
			windowLen = 0

			if rest == nil {
				out = append(out, splitRunes(piece, s.targetSize, s.overlap)...)
			} else {
				out = append(out, s.split(piece, rest)...)
			}
			continue
		}

		if windowLen+pieceLen > s.targetSize && windowLen > 0 {
			flush()
			carry(pieceLen)
		}
		window = append(window, piece)
		windowLen += pieceLen
	}
	flush()

	return out
}

// splitRunes is the last resort for text with no usable separator:
// fixed-size rune windows stepped by size minus overlap.
func splitRunes(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step <= 0 {
		step = size
	}

	out := make([]string, 0, len(runes)/step+1)
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end >= len(runes) {
			break
		}
	}
	return out
}
