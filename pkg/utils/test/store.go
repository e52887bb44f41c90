package testutils

import (
	"context"
	"fmt"
	"sync"

	"github.com/thornmill/loreindex/pkg/store"
)

// MockStore is a test chunk store with scripted KNN results
type MockStore struct {
	// Hits are returned from KNN, truncated to k
	Hits []store.Hit

	// Upserted records every row passed to Upsert, in order
	Upserted []store.Row

	// UpsertBatches counts Upsert calls
	UpsertBatches int

	// FailUpsert causes Upsert to return an error
	FailUpsert bool

	// FailKNN causes KNN to return an error
	FailKNN bool

	mu  sync.Mutex
	dim int
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SetDimension(_ context.Context, dim int) error {
	if m.dim != 0 && m.dim != dim {
		return fmt.Errorf("%w: have %d, got %d", store.ErrDimensionMismatch, m.dim, dim)
	}
	m.dim = dim
	return nil
}

func (m *MockStore) Dimension(_ context.Context) (int, error) {
	return m.dim, nil
}

func (m *MockStore) Upsert(_ context.Context, rows []store.Row) error {
	if m.FailUpsert {
		return fmt.Errorf("mock upsert failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpsertBatches++
	m.Upserted = append(m.Upserted, rows...)
	return nil
}

func (m *MockStore) KNN(_ context.Context, _ []float32, k int) ([]store.Hit, error) {
	if m.FailKNN {
		return nil, fmt.Errorf("mock knn failure")
	}
	if len(m.Hits) < k {
		return m.Hits, nil
	}
	return m.Hits[:k], nil
}

func (m *MockStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.Upserted)), nil
}

func (m *MockStore) Close() error {
	return nil
}
