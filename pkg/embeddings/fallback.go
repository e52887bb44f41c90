package embeddings

import (
	"context"

	"go.uber.org/zap"
)

// Fallback wraps a primary embedder with an alternate provider. When the
// primary fails, the same request is retried once against the fallback;
// if both fail, the primary's error propagates to the caller.
type Fallback struct {
	primary  Embedder
	fallback Embedder
	logger   *zap.Logger
}

// NewFallback builds the retry chain. fallback may be nil, in which case
// the wrapper is a pass-through.
func NewFallback(primary, fallback Embedder, logger *zap.Logger) *Fallback {
	return &Fallback{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Embed converts text into a vector embedding, retrying once on the
// fallback provider.
func (f *Fallback) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := f.primary.Embed(ctx, text)
	if err == nil || f.fallback == nil {
		return vec, err
	}

	f.logger.Warn("primary embedder failed, retrying on fallback",
		zap.Error(err),
	)

	vec, fbErr := f.fallback.Embed(ctx, text)
	if fbErr != nil {
		f.logger.Warn("fallback embedder failed",
			zap.Error(fbErr),
		)
		return nil, err
	}
	return vec, nil
}

// EmbedBatch converts a batch of texts, retrying the whole batch once on
// the fallback provider.
func (f *Fallback) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := f.primary.EmbedBatch(ctx, texts)
	if err == nil || f.fallback == nil {
		return vecs, err
	}

	f.logger.Warn("primary embedder failed, retrying batch on fallback",
		zap.Int("batch_size", len(texts)),
		zap.Error(err),
	)

	vecs, fbErr := f.fallback.EmbedBatch(ctx, texts)
	if fbErr != nil {
		f.logger.Warn("fallback embedder failed",
			zap.Error(fbErr),
		)
		return nil, err
	}
	return vecs, nil
}

// Close closes both underlying embedders.
func (f *Fallback) Close() error {
	err := f.primary.Close()
	if f.fallback != nil {
		if fbErr := f.fallback.Close(); err == nil {
			err = fbErr
		}
	}
	return err
}

// Ensure Fallback implements Embedder
var _ Embedder = (*Fallback)(nil)
