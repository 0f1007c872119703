// Package memory provides in-memory implementations of the storage
// ports. They back the test suites and the "memory" storage backend for
// throwaway indexes; nothing survives process exit.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore
// using exact cosine search over a map of passages. Writes take the
// write lock so a concurrent search sees the passage set from before or
// after a whole insert, never mid-batch.
type VectorStore struct {
	dimension int

	mu       sync.RWMutex
	closed   bool
	passages map[string]domain.Passage
}

// NewVectorStore creates a store for vectors of the given dimension.
func NewVectorStore(dimension int) *VectorStore {
	return &VectorStore{
		dimension: dimension,
		passages:  make(map[string]domain.Passage),
	}
}

// Insert stores the passages, replacing existing IDs. A wrong-length
// vector fails the whole batch before anything is written.
func (s *VectorStore) Insert(_ context.Context, passages []domain.Passage) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, domain.ErrStoreClosed
	}

	for _, p := range passages {
		if len(p.Vector) != s.dimension {
			return 0, fmt.Errorf("%w: passage %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), s.dimension)
		}
	}
	for _, p := range passages {
		s.passages[p.ID] = p
	}
	return len(passages), nil
}

// Search returns the k nearest passages under the filter.
func (s *VectorStore) Search(
	_ context.Context, query []float32, filter driven.SearchFilter, k int,
) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, domain.ErrStoreClosed
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), s.dimension)
	}
	if k <= 0 {
		return []domain.SearchResult{}, nil
	}

	var allowed map[string]bool
	if len(filter.DocumentIDs) > 0 {
		allowed = make(map[string]bool, len(filter.DocumentIDs))
		for _, id := range filter.DocumentIDs {
			allowed[id] = true
		}
	}

	results := make([]domain.SearchResult, 0, len(s.passages))
	for _, p := range s.passages {
		if p.OwnerID != filter.OwnerID {
			continue
		}
		if allowed != nil && !allowed[p.DocumentID] {
			continue
		}
		results = append(results, domain.SearchResult{
			Passage:    p,
			Similarity: cosineSimilarity(query, p.Vector),
		})
	}

	sortResults(results)

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// DeleteByDocument removes every passage of the document.
func (s *VectorStore) DeleteByDocument(_ context.Context, documentID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, domain.ErrStoreClosed
	}

	deleted := 0
	for id, p := range s.passages {
		if p.DocumentID == documentID {
			delete(s.passages, id)
			deleted++
		}
	}
	return deleted, nil
}

// Stats reports store size and dimension.
func (s *VectorStore) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.StoreStats{}, domain.ErrStoreClosed
	}

	docs := make(map[string]bool)
	for _, p := range s.passages {
		docs[p.DocumentID] = true
	}
	return domain.StoreStats{
		TotalPassages: len(s.passages),
		Documents:     len(docs),
		Dimension:     s.dimension,
	}, nil
}

// Close marks the store closed.
func (s *VectorStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// sortResults orders by similarity descending, ties broken by
// ascending (document_id, page_number, chunk_index) so results are
// deterministic.
func sortResults(results []domain.SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		if a.Passage.DocumentID != b.Passage.DocumentID {
			return a.Passage.DocumentID < b.Passage.DocumentID
		}
		if a.Passage.PageNumber != b.Passage.PageNumber {
			return a.Passage.PageNumber < b.Passage.PageNumber
		}
		return a.Passage.ChunkIndex < b.Passage.ChunkIndex
	})
}

// cosineSimilarity computes the cosine of the angle between two
// vectors. A zero vector scores 0 against everything.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
