package domain

import "strings"

// Retrieval defaults. Callers may override per query; zero values fall
// back to these.
const (
	// DefaultTopK is the number of passages requested when the caller
	// does not say.
	DefaultTopK = 5

	// MaxTopK caps a single search.
	MaxTopK = 50

	// DefaultMinSimilarity is the cosine similarity floor below which
	// results are discarded by the retriever.
	DefaultMinSimilarity = 0.3

	// DefaultMaxContextChars bounds the rendered context string.
	DefaultMaxContextChars = 2000
)

// SearchOptions configures a query.
type SearchOptions struct {
	// TopK is the maximum number of results. Zero or negative means
	// DefaultTopK; values above MaxTopK are clamped.
	TopK int

	// MinSimilarity is the similarity floor. Results scoring below it
	// are dropped by the retriever before ranking. Use a negative value
	// to disable the floor entirely.
	MinSimilarity float64

	// HasMinSimilarity marks MinSimilarity as explicitly set, so a
	// deliberate 0.0 floor is distinguishable from the default.
	HasMinSimilarity bool

	// DocumentIDs, when non-empty, restricts the search to the listed
	// documents. An allow-list naming documents with no passages is
	// legitimate and yields empty results, not an error.
	DocumentIDs []string
}

// Normalise returns a copy with defaults applied and limits clamped.
func (o SearchOptions) Normalise() SearchOptions {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.TopK > MaxTopK {
		o.TopK = MaxTopK
	}
	if !o.HasMinSimilarity {
		o.MinSimilarity = DefaultMinSimilarity
		o.HasMinSimilarity = true
	}
	ids := make([]string, 0, len(o.DocumentIDs))
	for _, id := range o.DocumentIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	o.DocumentIDs = ids
	return o
}

// CanonicalID validates an owner or document identifier. Identifiers are
// opaque strings with a single canonical encoding chosen by the caller;
// the engine only rejects the unusable ones. No alternate encodings are
// normalised here - an identifier stored under one spelling and queried
// under another is a caller bug, not something the engine papers over.
func CanonicalID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidInput
	}
	if strings.ContainsAny(id, " \t\n") {
		return "", ErrInvalidInput
	}
	return id, nil
}
