package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/doqa-labs/docq-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/doqa-labs/docq-cli/internal/core/domain"
	"github.com/doqa-labs/docq-cli/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store. Similarity search is a
// brute-force cosine scan over the collection, which stays fast for
// the corpus sizes a local ingestion workspace holds.
type Store struct {
	db           *sql.DB
	path         string
	collectionID int64
}

// NewStore opens (or creates) the vector database under dataDir and
// binds the store to the named collection, creating it if needed.
// If dataDir is empty, defaults to ~/.docq/data.
func NewStore(dataDir, collection string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docq", "data")
	}
	if collection == "" {
		collection = domain.DefaultCollection
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "vectors.db")

	// WAL mode keeps concurrent ingest and query sessions from
	// blocking each other.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.bindCollection(collection); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
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
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
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

// bindCollection resolves the collection row, creating it on first use.
func (s *Store) bindCollection(name string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO collections (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	row := s.db.QueryRow("SELECT id FROM collections WHERE name = ?", name)
	if err := row.Scan(&s.collectionID); err != nil {
		return fmt.Errorf("resolving collection: %w", err)
	}
	return nil
}

// Upsert writes all entries in one transaction. Existing ids are
// overwritten, which is what makes re-ingestion idempotent.
func (s *Store) Upsert(ctx context.Context, entries []driven.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (id, collection_id, content, embedding, metadata, filename)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id, collection_id) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			filename = excluded.filename,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		metadataJSON, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, entry.ID, s.collectionID, entry.Content,
			float32SliceToBytes(entry.Embedding), string(metadataJSON),
			entry.Metadata.Filename); err != nil {
			return fmt.Errorf("upserting entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Search scans the collection and returns up to limit hits ranked by
// cosine similarity, optionally constrained to one filename.
func (s *Store) Search(ctx context.Context, query []float32, limit int, filter driven.SearchFilter) ([]driven.Hit, error) {
	if limit <= 0 || len(query) == 0 {
		return []driven.Hit{}, nil
	}

	sqlQuery := `
		SELECT id, content, embedding, metadata
		FROM entries WHERE collection_id = ?
	`
	args := []any{s.collectionID}
	if filter.Filename != "" {
		sqlQuery += " AND filename = ?"
		args = append(args, filter.Filename)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var hits []driven.Hit //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		hits = append(hits, driven.Hit{
			Entry:      *entry,
			Similarity: cosineSimilarity(query, entry.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	if hits == nil {
		hits = []driven.Hit{}
	}
	return hits, nil
}

// IDsByFilename returns the ids of all entries for a filename.
func (s *Store) IDsByFilename(ctx context.Context, filename string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM entries WHERE collection_id = ? AND filename = ?
	`, s.collectionID, filename)
	if err != nil {
		return nil, fmt.Errorf("querying ids: %w", err)
	}
	defer rows.Close()

	var ids []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ids: %w", err)
	}
	return ids, nil
}

// DeleteByIDs removes the given entries. Unknown ids are ignored.
func (s *Store) DeleteByIDs(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, 0, len(ids)+1)
	args = append(args, s.collectionID)
	for _, id := range ids {
		args = append(args, id)
	}

	_, err := s.db.ExecContext(ctx,
		"DELETE FROM entries WHERE collection_id = ? AND id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	return nil
}

// Filenames lists the distinct filenames in the collection with their
// entry counts.
func (s *Store) Filenames(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT filename, COUNT(*) FROM entries
		WHERE collection_id = ? AND filename != ''
		GROUP BY filename
	`, s.collectionID)
	if err != nil {
		return nil, fmt.Errorf("querying filenames: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scanning filename: %w", err)
		}
		counts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating filenames: %w", err)
	}
	return counts, nil
}

// scanEntry scans one entry from *sql.Rows.
func scanEntry(rows *sql.Rows) (*driven.Entry, error) {
	var entry driven.Entry
	var embeddingBlob []byte
	var metadataJSON string

	if err := rows.Scan(&entry.ID, &entry.Content, &embeddingBlob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning entry: %w", err)
	}

	entry.Embedding = bytesToFloat32Slice(embeddingBlob)

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &entry.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return &entry, nil
}

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

// cosineSimilarity computes the cosine similarity of two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
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
