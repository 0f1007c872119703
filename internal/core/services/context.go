package services

import (
	"strings"

	"github.com/atheneum-labs/passage/internal/core/domain"
)

// BuildContext packs ranked search results into a context block whose
// rendered form never exceeds maxChars. Results are admitted whole, in
// order: a passage that would overflow the budget stops the scan rather
// than being truncated mid-string. Passages whose trimmed text repeats
// an already admitted one are skipped - overlapping chunk boundaries
// can index near-verbatim duplicates.
//
// Deterministic: the same ordered results and budget always produce the
// same block. Empty input yields an empty block, never an error.
func BuildContext(results []domain.SearchResult, maxChars int) domain.ContextBlock {
	if maxChars <= 0 || len(results) == 0 {
		return domain.ContextBlock{}
	}

	seen := make(map[string]bool, len(results))
	var passages []domain.ContextPassage
	total := 0

	for _, r := range results {
		text := strings.TrimSpace(r.Passage.Text)
		if text == "" || seen[text] {
			continue
		}

		cp := domain.ContextPassage{
			Text:       text,
			PageNumber: r.Passage.PageNumber,
			DocumentID: r.Passage.DocumentID,
		}

		cost := len(cp.Format())
		if len(passages) > 0 {
			cost += len(domain.ContextSeparator)
		}
		if total+cost > maxChars {
			break
		}

		seen[text] = true
		passages = append(passages, cp)
		total += cost
	}

	return domain.ContextBlock{Passages: passages}
}
