package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/atheneum-labs/passage/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/atheneum-labs/passage/internal/core/domain"
	"github.com/atheneum-labs/passage/internal/core/ports/driven"
)

// Metadata keys in index_meta.
const (
	metaModel     = "embedding_model"
	metaDimension = "embedding_dimension"
)

// Store is the SQLite-backed storage. It serves the vector store and
// the job store through wrapper types sharing one database handle.
type Store struct {
	db        *sql.DB
	path      string
	model     string
	dimension int

	mu     sync.Mutex
	closed bool
}

// NewStore opens (or creates) the database at dataDir and binds it to
// the given embedding model and dimension. If dataDir is empty,
// defaults to ~/.passage/data/passages.db. Opening an existing index
// built by a different model or dimension fails with
// domain.ErrDimensionMismatch; mixing vector spaces would make every
// similarity meaningless.
func NewStore(dataDir, model string, dimension int) (*Store, error) {
	if model == "" || dimension <= 0 {
		return nil, fmt.Errorf("%w: model and dimension are required", domain.ErrInvalidInput)
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".passage", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "passages.db")

	// WAL mode for better concurrency between ingest workers and
	// queries.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:        db,
		path:      dbPath,
		model:     model,
		dimension: dimension,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.checkMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// isClosed reports whether Close has been called.
func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// VectorStore returns a VectorStore interface backed by this store.
func (s *Store) VectorStore() driven.VectorStore {
	return &vectorStore{store: s}
}

// JobStore returns a JobStore interface backed by this store.
func (s *Store) JobStore() driven.JobStore {
	return &jobStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// checkMeta records the embedding model binding on first open and
// verifies it on every subsequent one.
func (s *Store) checkMeta() error {
	storedModel, err := s.getMeta(metaModel)
	if err != nil {
		return err
	}

	if storedModel == "" {
		if err := s.setMeta(metaModel, s.model); err != nil {
			return err
		}
		return s.setMeta(metaDimension, strconv.Itoa(s.dimension))
	}

	storedDim, err := s.getMeta(metaDimension)
	if err != nil {
		return err
	}
	dim, err := strconv.Atoi(storedDim)
	if err != nil {
		return fmt.Errorf("corrupt index metadata: dimension %q", storedDim)
	}

	if storedModel != s.model || dim != s.dimension {
		return fmt.Errorf("%w: index built with %s (%d dimensions), opened with %s (%d); remove and re-ingest to switch models",
			domain.ErrDimensionMismatch, storedModel, dim, s.model, s.dimension)
	}
	return nil
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading index meta %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO index_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("writing index meta %s: %w", key, err)
	}
	return nil
}

// ==================== Vector Store ====================

// vectorStore implements driven.VectorStore.
type vectorStore struct {
	store *Store
}

var _ driven.VectorStore = (*vectorStore)(nil)

// Insert stores the passages in one transaction, replacing existing
// IDs. A wrong-length vector fails the whole batch.
func (s *vectorStore) Insert(ctx context.Context, passages []domain.Passage) (int, error) {
	if s.store.isClosed() {
		return 0, domain.ErrStoreClosed
	}
	for _, p := range passages {
		if len(p.Vector) != s.store.dimension {
			return 0, fmt.Errorf("%w: passage %s has %d dimensions, index has %d",
				domain.ErrDimensionMismatch, p.ID, len(p.Vector), s.store.dimension)
		}
	}
	if len(passages) == 0 {
		return 0, nil
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO passages (id, owner_id, document_id, page_number, chunk_index,
			text, start_char, end_char, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			owner_id = excluded.owner_id,
			text = excluded.text,
			start_char = excluded.start_char,
			end_char = excluded.end_char,
			vector = excluded.vector
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		if _, err := stmt.ExecContext(ctx, p.ID, p.OwnerID, p.DocumentID, p.PageNumber,
			p.ChunkIndex, p.Text, p.StartChar, p.EndChar, float32SliceToBytes(p.Vector)); err != nil {
			return 0, fmt.Errorf("saving passage %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return len(passages), nil
}

// Search scans the owner's passages and returns the k nearest by
// cosine similarity. The owner and document filters are pushed into
// SQL; the similarity itself is computed in Go over the candidate set.
func (s *vectorStore) Search(
	ctx context.Context, query []float32, filter driven.SearchFilter, k int,
) ([]domain.SearchResult, error) {
	if s.store.isClosed() {
		return nil, domain.ErrStoreClosed
	}
	if len(query) != s.store.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(query), s.store.dimension)
	}
	if k <= 0 {
		return nil, nil
	}

	q := `
		SELECT id, owner_id, document_id, page_number, chunk_index,
			text, start_char, end_char, vector
		FROM passages WHERE owner_id = ?
	`
	args := []any{filter.OwnerID}
	if len(filter.DocumentIDs) > 0 {
		q += " AND document_id IN (?" + strings.Repeat(", ?", len(filter.DocumentIDs)-1) + ")"
		for _, id := range filter.DocumentIDs {
			args = append(args, id)
		}
	}

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.Passage
		var blob []byte
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.DocumentID, &p.PageNumber, &p.ChunkIndex,
			&p.Text, &p.StartChar, &p.EndChar, &blob); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		p.Vector = bytesToFloat32Slice(blob)
		results = append(results, domain.SearchResult{
			Passage:    p,
			Similarity: cosineSimilarity(query, p.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating passages: %w", err)
	}

	// Highest similarity first; ties resolve by passage position so
	// equal scores always come back in the same order.
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

	if len(results) > k {
		results = results[:k]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results, nil
}

// DeleteByDocument removes all passages of a document and reports how
// many were deleted.
func (s *vectorStore) DeleteByDocument(ctx context.Context, documentID string) (int, error) {
	if s.store.isClosed() {
		return 0, domain.ErrStoreClosed
	}

	res, err := s.store.db.ExecContext(ctx, "DELETE FROM passages WHERE document_id = ?", documentID)
	if err != nil {
		return 0, fmt.Errorf("deleting passages: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted passages: %w", err)
	}
	return int(n), nil
}

// Stats reports index size and dimension.
func (s *vectorStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	if s.store.isClosed() {
		return domain.StoreStats{}, domain.ErrStoreClosed
	}

	var stats domain.StoreStats
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COUNT(DISTINCT document_id) FROM passages")
	if err := row.Scan(&stats.TotalPassages, &stats.Documents); err != nil {
		return domain.StoreStats{}, fmt.Errorf("counting passages: %w", err)
	}
	stats.Dimension = s.store.dimension
	return stats, nil
}

// Close closes the underlying store.
func (s *vectorStore) Close() error {
	return s.store.Close()
}

// ==================== Job Store ====================

// jobStore implements driven.JobStore.
type jobStore struct {
	store *Store
}

var _ driven.JobStore = (*jobStore)(nil)

// SaveJob stores or updates a job record.
func (s *jobStore) SaveJob(ctx context.Context, job *domain.IngestJob) error {
	if s.store.isClosed() {
		return domain.ErrStoreClosed
	}

	reportJSON, err := json.Marshal(job.Report)
	if err != nil {
		return fmt.Errorf("marshalling report: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_jobs (id, owner_id, document_id, state, report, error,
			enqueued_at, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			report = excluded.report,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, job.ID, job.OwnerID, job.DocumentID, string(job.State), string(reportJSON),
		job.Error, job.EnqueuedAt, nullTime(job.StartedAt), nullTime(job.FinishedAt))

	if err != nil {
		return fmt.Errorf("saving job: %w", err)
	}
	return nil
}

// GetJob retrieves a job by ID.
func (s *jobStore) GetJob(ctx context.Context, id string) (*domain.IngestJob, error) {
	if s.store.isClosed() {
		return nil, domain.ErrStoreClosed
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner_id, document_id, state, report, error,
			enqueued_at, started_at, finished_at
		FROM ingest_jobs WHERE id = ?
	`, id)

	job, err := scanJob(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ListJobs returns jobs newest first, optionally filtered by document.
// limit <= 0 means no limit.
func (s *jobStore) ListJobs(ctx context.Context, documentID string, limit int) ([]domain.IngestJob, error) {
	if s.store.isClosed() {
		return nil, domain.ErrStoreClosed
	}

	q := `
		SELECT id, owner_id, document_id, state, report, error,
			enqueued_at, started_at, finished_at
		FROM ingest_jobs
	`
	var args []any
	if documentID != "" {
		q += " WHERE document_id = ?"
		args = append(args, documentID)
	}
	q += " ORDER BY enqueued_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.IngestJob //nolint:prealloc // size unknown from query
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

// scanJob reads one job row through the given scan function.
func scanJob(scan func(...any) error) (*domain.IngestJob, error) {
	var job domain.IngestJob
	var state, reportJSON string
	var startedAt, finishedAt sql.NullTime

	if err := scan(&job.ID, &job.OwnerID, &job.DocumentID, &state, &reportJSON,
		&job.Error, &job.EnqueuedAt, &startedAt, &finishedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	job.State = domain.JobState(state)
	if err := json.Unmarshal([]byte(reportJSON), &job.Report); err != nil {
		return nil, fmt.Errorf("unmarshaling report: %w", err)
	}
	if startedAt.Valid {
		job.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		job.FinishedAt = finishedAt.Time
	}
	return &job, nil
}

// ==================== Helpers ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Either vector having zero magnitude yields 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// nullTime maps the zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
