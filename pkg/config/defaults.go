package config

import "github.com/thornmill/loreindex/pkg/chunk"

const (
	defaultSQLitePath = "loreindex.db"

	defaultEmbeddingProvider = "ollama"
	defaultEmbeddingTarget   = "http://localhost:11434"
	defaultEmbeddingModel    = "nomic-embed-text"

	defaultTopK = 5
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			SQLitePath: defaultSQLitePath,
		},
		Chunking: ChunkingConfig{
			TokenBudget:  chunk.DefaultTokenBudget,
			OverlapRatio: chunk.DefaultOverlapRatio,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Target:   defaultEmbeddingTarget,
			Model:    defaultEmbeddingModel,
		},
		Search: SearchConfig{
			DefaultTopK: defaultTopK,
		},
	}
}
