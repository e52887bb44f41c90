// Package sqlitevec provides a SQLite-backed chunk store using sqlite-vec.
//
// Chunk records live in a plain `chunks` table whose rowid doubles as the
// key into a vec0 virtual table holding the embeddings. Both are written
// inside one transaction per batch so the record/vector pairing invariant
// holds under partial failure.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/store"
)

// SQLiteVecStore implements store.Store using SQLite with sqlite-vec.
type SQLiteVecStore struct {
	db     *sql.DB
	dim    int
	logger *zap.Logger
}

// Config holds configuration for the SQLite vec store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string
}

// NewSQLiteVecStore opens (or creates) a chunk store at the given path.
// If the store has been written to before, its pinned dimension is read
// back from the meta table.
func NewSQLiteVecStore(c Config, logger *zap.Logger) (*SQLiteVecStore, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite-vec not available: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			chunk_id TEXT NOT NULL UNIQUE,
			path TEXT NOT NULL,
			text TEXT NOT NULL,
			content_hash TEXT NOT NULL DEFAULT '',
			metadata_json TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating chunks table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS store_meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating meta table: %w", err)
	}

	s := &SQLiteVecStore{
		db:     db,
		logger: logger,
	}

	dim, err := s.readDimension()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.dim = dim

	logger.Info("sqlite-vec chunk store opened",
		zap.String("db_path", c.DBPath),
		zap.Int("dimensions", dim),
		zap.String("vec_version", vecVersion),
	)

	return s, nil
}

// readDimension loads the persisted dimension, or 0 for a fresh store.
func (s *SQLiteVecStore) readDimension() (int, error) {
	var dim int
	err := s.db.QueryRow(`SELECT value FROM store_meta WHERE key = 'dimensions'`).Scan(&dim)
	switch {
	case err == nil:
		return dim, nil
	case errors.Is(err, sql.ErrNoRows):
		return 0, nil
	default:
		return 0, fmt.Errorf("reading store dimension: %w", err)
	}
}

// SetDimension pins the vector width for this store. The first call
// provisions the vec0 virtual table; later calls must match exactly.
func (s *SQLiteVecStore) SetDimension(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", store.ErrDimensionMismatch, dim)
	}

	if s.dim != 0 {
		if s.dim != dim {
			return fmt.Errorf("%w: store has dimension %d, got %d", store.ErrDimensionMismatch, s.dim, dim)
		}
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO store_meta(key, value) VALUES ('dimensions', ?)`, dim,
	); err != nil {
		return fmt.Errorf("persisting dimension: %w", err)
	}

	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS chunk_vectors USING vec0(embedding float[%d])`,
		dim,
	)
	if _, err := tx.ExecContext(ctx, createVec); err != nil {
		return fmt.Errorf("creating vec0 table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.dim = dim
	s.logger.Info("store dimension pinned", zap.Int("dimensions", dim))
	return nil
}

// Dimension returns the pinned vector width, or 0 if none is set.
func (s *SQLiteVecStore) Dimension(_ context.Context) (int, error) {
	return s.dim, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// Upsert inserts or replaces the given rows by chunk ID, writing each chunk
// record and its vector inside a single transaction for the whole batch.
func (s *SQLiteVecStore) Upsert(ctx context.Context, rows []store.Row) error {
	if len(rows) == 0 {
		return nil
	}
	if s.dim == 0 {
		return store.ErrNoDimension
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, row := range rows {
		if len(row.Embedding) != s.dim {
			return fmt.Errorf("%w: chunk %s has %d dimensions, store has %d",
				store.ErrDimensionMismatch, row.ChunkID, len(row.Embedding), s.dim)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO chunks(chunk_id, path, text, content_hash, metadata_json)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(chunk_id) DO UPDATE SET
				path = excluded.path,
				text = excluded.text,
				content_hash = excluded.content_hash,
				metadata_json = excluded.metadata_json
		`, row.ChunkID, row.Path, row.Text, row.ContentHash, row.MetadataJSON); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", row.ChunkID, err)
		}

		// LastInsertId is unreliable on conflict, so read the rowid back.
		var rowID int64
		if err := tx.QueryRowContext(ctx,
			`SELECT rowid FROM chunks WHERE chunk_id = ?`, row.ChunkID,
		).Scan(&rowID); err != nil {
			return fmt.Errorf("binding rowid for chunk %s: %w", row.ChunkID, err)
		}
		if rowID <= 0 {
			s.logger.Error("malformed rowid for chunk",
				zap.String("chunk_id", row.ChunkID),
				zap.Int64("rowid", rowID),
			)
			return fmt.Errorf("%w: chunk %s bound to rowid %d", store.ErrBadRowID, row.ChunkID, rowID)
		}

		// vec0 has no native upsert: try an update first, insert only when
		// no vector row existed yet.
		embBlob := serializeFloat32(row.Embedding)
		res, err := tx.ExecContext(ctx,
			`UPDATE chunk_vectors SET embedding = ? WHERE rowid = ?`,
			embBlob, rowID,
		)
		if err != nil {
			return fmt.Errorf("updating vector for chunk %s: %w", row.ChunkID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking vector update for chunk %s: %w", row.ChunkID, err)
		}
		if affected == 0 {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO chunk_vectors(rowid, embedding) VALUES (?, ?)`,
				rowID, embBlob,
			); err != nil {
				return fmt.Errorf("inserting vector for chunk %s: %w", row.ChunkID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("upserted chunks",
		zap.Int("count", len(rows)),
	)

	return nil
}

// KNN returns up to k chunk rows ordered by ascending L2 distance to the
// query embedding, each joined back to its chunk text and metadata.
func (s *SQLiteVecStore) KNN(ctx context.Context, embedding []float32, k int) ([]store.Hit, error) {
	if k <= 0 {
		k = 10
	}
	if s.dim == 0 {
		return nil, store.ErrNoDimension
	}
	if len(embedding) != s.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			store.ErrDimensionMismatch, len(embedding), s.dim)
	}

	queryBlob := serializeFloat32(embedding)

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			c.chunk_id,
			c.path,
			c.text,
			c.metadata_json,
			v.distance
		FROM chunk_vectors v
		INNER JOIN chunks c ON c.rowid = v.rowid
		WHERE v.embedding MATCH ?
			AND v.k = ?
		ORDER BY v.distance
	`, queryBlob, k)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var hits []store.Hit
	for rows.Next() {
		var h store.Hit
		if err := rows.Scan(&h.ChunkID, &h.Path, &h.Text, &h.MetadataJSON, &h.Distance); err != nil {
			return nil, fmt.Errorf("scanning knn result: %w", err)
		}
		// Lower distance = higher similarity
		h.Similarity = 1.0 / (1.0 + h.Distance)
		hits = append(hits, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating knn results: %w", err)
	}

	s.logger.Debug("knn query",
		zap.Int("k", k),
		zap.Int("results", len(hits)),
	)

	return hits, nil
}

// Count returns the number of stored chunk records.
func (s *SQLiteVecStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}
	return n, nil
}

// Close releases resources held by the store.
func (s *SQLiteVecStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteVecStore implements store.Store
var _ store.Store = (*SQLiteVecStore)(nil)
