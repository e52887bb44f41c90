package store

import "errors"

var (
	// ErrDimensionMismatch is returned when a vector's length does not match
	// the store's pinned dimension. Fatal for the store instance: continuing
	// to write would corrupt the vector index.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNoDimension is returned when a write or query arrives before any
	// dimension has been pinned.
	ErrNoDimension = errors.New("store dimension not set")

	// ErrBadRowID is returned when the row ID binding a chunk record to its
	// vector is malformed. Fatal for that row.
	ErrBadRowID = errors.New("malformed row id")
)
