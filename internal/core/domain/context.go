package domain

import (
	"fmt"
	"strings"
)

// ContextSeparator joins formatted passages when a ContextBlock is
// rendered. It counts against the character budget.
const ContextSeparator = "\n\n"

// ContextPassage is one passage selected for a context block, with the
// attribution needed to cite it.
type ContextPassage struct {
	// Text is the passage content, trimmed.
	Text string

	// PageNumber is the source page, 1-based.
	PageNumber int

	// DocumentID is the source document.
	DocumentID string
}

// Format renders the passage the way it appears in the final context
// string.
func (p ContextPassage) Format() string {
	return fmt.Sprintf("[Page %d]: %s", p.PageNumber, p.Text)
}

// ContextBlock is an ordered set of passages packed for a single query
// under a character budget. An empty block is a valid outcome, not an
// error; callers fall back to answering without document context.
type ContextBlock struct {
	// Passages in descending relevance order.
	Passages []ContextPassage
}

// Empty reports whether the block holds no passages.
func (b ContextBlock) Empty() bool {
	return len(b.Passages) == 0
}

// Render serialises the block. The result length never exceeds the
// budget the block was built with.
func (b ContextBlock) Render() string {
	if len(b.Passages) == 0 {
		return ""
	}
	parts := make([]string, len(b.Passages))
	for i, p := range b.Passages {
		parts[i] = p.Format()
	}
	return strings.Join(parts, ContextSeparator)
}
