// Package index drives the chunking → metadata → embedding → storage
// pipeline. Processing is sequential: one document at a time, one
// embedding batch at a time, in traversal order. Re-running the pipeline
// over unchanged content reproduces identical chunk IDs and simply
// overwrites the same rows, so interrupted runs are safely resumable.
package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/document"
	"github.com/thornmill/loreindex/pkg/embeddings"
	"github.com/thornmill/loreindex/pkg/section"
	"github.com/thornmill/loreindex/pkg/store"
)

// DefaultBatchSize is the number of chunks embedded and upserted per batch.
const DefaultBatchSize = 16

// Indexer wires the pipeline stages together.
type Indexer struct {
	assembler *chunk.Assembler
	embedder  embeddings.Embedder
	store     store.Store
	logger    *zap.Logger
	batchSize int
}

// Result summarizes one index run.
type Result struct {
	Documents int
	Chunks    int
}

// NewIndexer creates an indexer over the given collaborators.
func NewIndexer(assembler *chunk.Assembler, embedder embeddings.Embedder, st store.Store, logger *zap.Logger) *Indexer {
	return &Indexer{
		assembler: assembler,
		embedder:  embedder,
		store:     st,
		logger:    logger,
		batchSize: DefaultBatchSize,
	}
}

// IndexDir loads every indexable document under root and indexes them in
// traversal order. A failing batch aborts the run; batches already
// committed (including those of earlier documents) remain valid.
func (ix *Indexer) IndexDir(ctx context.Context, root string) (*Result, error) {
	runID := uuid.NewString()
	log := ix.logger.With(zap.String("run_id", runID))

	docs, err := document.LoadDir(root, log)
	if err != nil {
		return nil, err
	}

	log.Info("index run starting",
		zap.String("root", root),
		zap.Int("documents", len(docs)),
	)

	result := &Result{}
	for _, doc := range docs {
		n, err := ix.indexDocument(ctx, doc, log)
		if err != nil {
			return nil, fmt.Errorf("indexing %s: %w", doc.Path, err)
		}
		result.Documents++
		result.Chunks += n
	}

	total, err := ix.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("index run complete",
		zap.Int("documents", result.Documents),
		zap.Int("chunks", result.Chunks),
		zap.Int64("stored_rows", total),
	)

	return result, nil
}

// IndexDocument runs the full pipeline for a single document and returns
// the number of chunks written.
func (ix *Indexer) IndexDocument(ctx context.Context, doc document.Document) (int, error) {
	return ix.indexDocument(ctx, doc, ix.logger)
}

func (ix *Indexer) indexDocument(ctx context.Context, doc document.Document, log *zap.Logger) (int, error) {
	sections := section.Parse(doc.Text)
	chunks := ix.assembler.Assemble(chunk.Source{
		File:       doc.Path,
		Universe:   doc.Meta.Universe,
		Species:    doc.Meta.Species,
		Subspecies: doc.Meta.Subspecies,
		Aliases:    doc.Meta.Aliases,
	}, sections)

	log.Debug("document chunked",
		zap.String("path", doc.Path),
		zap.Int("sections", len(sections)),
		zap.Int("chunks", len(chunks)),
	)

	for start := 0; start < len(chunks); start += ix.batchSize {
		end := min(start+ix.batchSize, len(chunks))
		if err := ix.indexBatch(ctx, chunks[start:end]); err != nil {
			return 0, err
		}
	}

	return len(chunks), nil
}

// indexBatch embeds one batch of chunks and writes records and vectors as
// a single atomic unit.
func (ix *Indexer) indexBatch(ctx context.Context, chunks []chunk.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vecs, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}
	if len(vecs) != len(chunks) {
		return fmt.Errorf("%w: got %d embeddings for %d chunks", embeddings.ErrEmbedding, len(vecs), len(chunks))
	}

	// The first successful embedding pins the store dimension; every later
	// batch must match it or the run aborts.
	if len(vecs) > 0 {
		if err := ix.store.SetDimension(ctx, len(vecs[0])); err != nil {
			return err
		}
	}

	rows := make([]store.Row, len(chunks))
	for i, c := range chunks {
		metaJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata for chunk %s: %w", c.ID, err)
		}
		rows[i] = store.Row{
			ChunkID:      c.ID,
			Path:         c.Metadata.SourceFile,
			Text:         c.Text,
			ContentHash:  chunk.ContentHash(c.Text),
			MetadataJSON: string(metaJSON),
			Embedding:    vecs[i],
		}
	}

	return ix.store.Upsert(ctx, rows)
}
