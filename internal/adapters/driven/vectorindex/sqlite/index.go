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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/similarity"
	"github.com/sipneat/wildfire-narratives/internal/adapters/driven/vectorindex/sqlite/migrations"
	"github.com/sipneat/wildfire-narratives/internal/core/domain"
	"github.com/sipneat/wildfire-narratives/internal/core/ports/driven"
)

// DefaultFileName is the index database file name.
const DefaultFileName = "index.db"

const (
	metaName      = "name"
	metaDimension = "dimension"
	metaMetric    = "metric"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a persistent vector index stored in a single SQLite file.
type Index struct {
	db        *sql.DB
	path      string
	name      string
	dimension int
}

// New opens or creates the index at path. If path is empty, defaults to
// ~/.wildfire/index.db.
func New(path, name string, dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("sqlite index: %w: dimension must be positive", domain.ErrInvalidConfig)
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".wildfire", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("%w: creating index directory: %w", domain.ErrVectorIndexUnavailable, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrVectorIndexUnavailable, err)
	}

	idx := &Index{
		db:        db,
		path:      path,
		name:      name,
		dimension: dimension,
	}

	if err := idx.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := idx.describe(); err != nil {
		db.Close()
		return nil, err
	}

	return idx, nil
}

// Path returns the database file path.
func (i *Index) Path() string {
	return i.path
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// migrate runs all pending migrations.
func (i *Index) migrate(fsys embed.FS) error {
	_, err := i.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := i.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
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
		if _, err := i.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// describe records the index description on first open and verifies
// the dimension on later opens.
func (i *Index) describe() error {
	var stored string
	err := i.db.QueryRow("SELECT value FROM index_meta WHERE key = ?", metaDimension).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = i.db.Exec(`
			INSERT INTO index_meta (key, value) VALUES (?, ?), (?, ?), (?, ?)
		`, metaName, i.name, metaDimension, strconv.Itoa(i.dimension), metaMetric, domain.DefaultMetric)
		if err != nil {
			return fmt.Errorf("sqlite index: recording description: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("sqlite index: reading description: %w", err)
	}

	dim, err := strconv.Atoi(stored)
	if err != nil {
		return fmt.Errorf("sqlite index: stored dimension %q: %w", stored, domain.ErrIndex)
	}
	if dim != i.dimension {
		return fmt.Errorf("sqlite index %s: %w: stored %d, configured %d",
			i.path, domain.ErrDimensionMismatch, dim, i.dimension)
	}
	return nil
}

// ==================== Vector Index ====================

// Stats reports the populated vector count.
func (i *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	var count int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vectors").Scan(&count); err != nil {
		return domain.IndexStats{}, fmt.Errorf("sqlite index: stats: %w: %w", domain.ErrIndex, err)
	}
	return domain.IndexStats{
		Name:        i.name,
		Dimension:   i.dimension,
		Metric:      domain.DefaultMetric,
		VectorCount: count,
	}, nil
}

// Upsert writes entries in a single transaction, replacing any with the
// same ID while keeping their original position.
func (i *Index) Upsert(ctx context.Context, entries []domain.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, e := range entries {
		if len(e.Values) != i.dimension {
			return fmt.Errorf("sqlite index: %s: %w: got %d, want %d",
				e.ID, domain.ErrDimensionMismatch, len(e.Values), i.dimension)
		}
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite index: begin: %w: %w", domain.ErrIndex, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (id, embedding, metadata)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			embedding = excluded.embedding,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		return fmt.Errorf("sqlite index: prepare upsert: %w: %w", domain.ErrIndex, err)
	}
	defer stmt.Close()

	for _, e := range entries {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("sqlite index: marshal metadata for %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, float32SliceToBytes(e.Values), string(meta)); err != nil {
			return fmt.Errorf("sqlite index: upsert %s: %w: %w", e.ID, domain.ErrIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite index: commit: %w: %w", domain.ErrIndex, err)
	}
	return nil
}

// Query returns the k nearest entries by cosine similarity.
func (i *Index) Query(ctx context.Context, vector []float32, k int) ([]domain.SearchResult, error) {
	if len(vector) != i.dimension {
		return nil, fmt.Errorf("sqlite index: query: %w: got %d, want %d",
			domain.ErrDimensionMismatch, len(vector), i.dimension)
	}

	rows, err := i.db.QueryContext(ctx, "SELECT id, embedding, metadata FROM vectors ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("sqlite index: query: %w: %w", domain.ErrIndex, err)
	}
	defer rows.Close()

	var (
		ids       []string
		vectors   [][]float32
		metaBlobs []string
	)
	for rows.Next() {
		var (
			id   string
			blob []byte
			meta string
		)
		if err := rows.Scan(&id, &blob, &meta); err != nil {
			return nil, fmt.Errorf("sqlite index: scan: %w: %w", domain.ErrIndex, err)
		}
		ids = append(ids, id)
		vectors = append(vectors, bytesToFloat32Slice(blob))
		metaBlobs = append(metaBlobs, meta)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite index: rows: %w: %w", domain.ErrIndex, err)
	}

	ranked := similarity.TopK(vector, vectors, k)
	results := make([]domain.SearchResult, 0, len(ranked))
	for _, r := range ranked {
		var meta domain.Metadata
		if err := json.Unmarshal([]byte(metaBlobs[r.Pos]), &meta); err != nil {
			return nil, fmt.Errorf("sqlite index: metadata for %s: %w", ids[r.Pos], err)
		}
		results = append(results, domain.SearchResult{
			ID:       ids[r.Pos],
			Score:    r.Score,
			Metadata: meta,
		})
	}
	return results, nil
}

// ==================== Helper Functions ====================

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
