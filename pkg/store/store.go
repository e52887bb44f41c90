// Package store defines the persistent chunk + vector storage contract.
//
// A store holds two coupled structures: a chunk-record table keyed by a
// unique chunk ID with a storage-assigned integer row ID, and a vector
// index keyed by that same row ID. The two are exposed through one
// interface so that a chunk record and its vector are always written as
// a pair.
package store

import "context"

// Row is a chunk record joined with its vector slot.
type Row struct {
	// ChunkID is the caller-supplied stable identifier. Writing the same
	// ChunkID again replaces the record and its vector in place.
	ChunkID string

	// Path is the source file the chunk came from.
	Path string

	// Text is the chunk text.
	Text string

	// ContentHash is a hash of Text, used to detect unchanged content.
	ContentHash string

	// MetadataJSON is the serialized chunk metadata.
	MetadataJSON string

	// Embedding is the vector for this chunk. Its length must match the
	// store's pinned dimension exactly.
	Embedding []float32
}

// Hit is a nearest-neighbor result joined back to its chunk record.
type Hit struct {
	ChunkID      string
	Path         string
	Text         string
	MetadataJSON string

	// Distance is the L2 distance between the query vector and the stored
	// vector. Similarity is derived as 1/(1+Distance).
	Distance   float64
	Similarity float64
}

// Store persists chunk records with their embeddings and answers KNN queries.
type Store interface {
	// SetDimension pins the vector width. The first call on a fresh store
	// records the dimension and provisions the vector index; the dimension
	// survives restarts. Subsequent calls must pass the same value or the
	// call fails with ErrDimensionMismatch.
	SetDimension(ctx context.Context, dim int) error

	// Dimension returns the pinned vector width, or 0 if none is set yet.
	Dimension(ctx context.Context) (int, error)

	// Upsert inserts or replaces the given rows by ChunkID. The whole batch
	// is one atomic unit: a mid-batch failure leaves no chunk record without
	// a matching vector (or vice versa) for any row in the batch. Atomicity
	// is not guaranteed across separate Upsert calls.
	Upsert(ctx context.Context, rows []Row) error

	// KNN returns up to k rows ordered by ascending L2 distance to the
	// query embedding.
	KNN(ctx context.Context, embedding []float32, k int) ([]Hit, error)

	// Count returns the number of stored chunk records.
	Count(ctx context.Context) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
