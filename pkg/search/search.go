// Package search turns raw nearest-neighbor hits plus chunk metadata into
// a filtered, re-scored, sorted result list. It is the query-time half of
// the pipeline: embed the query, over-fetch neighbors, filter on metadata,
// boost by heuristic matches, sort, truncate.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/embeddings"
	"github.com/thornmill/loreindex/pkg/store"
)

// ErrInvalidQuery is returned for an empty query or non-positive k,
// before any store or network call is made.
var ErrInvalidQuery = errors.New("invalid search query")

// previewLimit is the display truncation length for chunk text.
const previewLimit = 300

// Searcher performs semantic search with metadata-aware re-ranking.
type Searcher struct {
	embedder embeddings.Embedder
	store    store.Store
	logger   *zap.Logger
}

// NewSearcher wires an embedder and a store into a searcher.
func NewSearcher(embedder embeddings.Embedder, st store.Store, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		store:    st,
		logger:   logger,
	}
}

// Search embeds the query, over-fetches max(2k, 20) nearest neighbors to
// leave room for re-ranking and filtering, and returns at most k hits
// sorted by descending relevance score.
func (s *Searcher) Search(ctx context.Context, query string, k int, filters Filters) (*Output, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidQuery)
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidQuery, k)
	}

	s.logger.Debug("search request",
		zap.String("query", query),
		zap.Int("k", k),
	)

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	fetchK := max(2*k, 20)
	raw, err := s.store.KNN(ctx, queryVec, fetchK)
	if err != nil {
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	hits := make([]Hit, 0, len(raw))
	for _, r := range raw {
		meta, ok := parseMetadata(r.MetadataJSON, s.logger)
		if ok && !passesFilters(meta, filters) {
			continue
		}
		hits = append(hits, buildHit(r, meta, ok, query))
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].RelevanceScore > hits[j].RelevanceScore
	})
	if len(hits) > k {
		hits = hits[:k]
	}

	return &Output{
		Query:            query,
		ResultsRequested: k,
		ResultsFound:     len(hits),
		FiltersApplied:   filters,
		Hits:             hits,
	}, nil
}

// parseMetadata decodes stored metadata. Unparsable metadata is fail-open:
// the hit survives filtering and falls back to the base similarity score.
func parseMetadata(metaJSON string, logger *zap.Logger) (chunk.Metadata, bool) {
	var meta chunk.Metadata
	if err := json.Unmarshal([]byte(metaJSON), &meta); err != nil {
		logger.Debug("unparsable chunk metadata, keeping hit unfiltered",
			zap.Error(err),
		)
		return chunk.Metadata{}, false
	}
	return meta, true
}

// passesFilters applies exact-match and minimum-importance filters.
func passesFilters(meta chunk.Metadata, f Filters) bool {
	if f.Universe != "" && meta.Universe != f.Universe {
		return false
	}
	if f.Species != "" && meta.Species != f.Species {
		return false
	}
	if f.Subspecies != "" && meta.Subspecies != f.Subspecies {
		return false
	}
	if f.ContentType != "" && meta.ContentType != f.ContentType {
		return false
	}
	if f.MinImportance > 0 && meta.ImportanceScore < f.MinImportance {
		return false
	}
	return true
}

// buildHit assembles the result record, scoring it against the query.
func buildHit(r store.Hit, meta chunk.Metadata, hasMeta bool, query string) Hit {
	h := Hit{
		ID:       r.ChunkID,
		Distance: r.Distance,
		Path:     r.Path,
	}

	if hasMeta {
		h.Section = meta.SectionPath
		h.Title = meta.SectionTitle
		h.ContentType = meta.ContentType
		h.Importance = meta.ImportanceScore
		h.Entities = meta.Entities
		h.Concepts = meta.Concepts
		h.RelevanceScore = compositeScore(r, meta, query)
	} else {
		h.RelevanceScore = clampScore(r.Similarity)
	}

	h.Chunk = r.Text
	if runes := []rune(r.Text); len(runes) > previewLimit {
		h.Chunk = string(runes[:previewLimit]) + "..."
		h.FullChunk = r.Text
	}

	return h
}
