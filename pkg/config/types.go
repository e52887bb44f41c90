package config

import (
	"fmt"
	"strconv"
)

// Config represents the persistent loreindex configuration stored as
// config.toml in the .loreindex/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Storage   StorageConfig   `toml:"storage"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Search    SearchConfig    `toml:"search"`
}

// StorageConfig holds chunk store settings.
type StorageConfig struct {
	SQLitePath string `toml:"sqlite_path,omitempty"`
}

// ChunkingConfig holds size-splitter settings.
type ChunkingConfig struct {
	TokenBudget  int     `toml:"token_budget,omitempty"`
	OverlapRatio float64 `toml:"overlap_ratio,omitempty"`
}

// EmbeddingConfig holds embedding provider settings, including the
// optional fallback provider used for a single retry when the primary
// fails.
type EmbeddingConfig struct {
	Provider string `toml:"provider,omitempty"`
	Target   string `toml:"target,omitempty"`
	Model    string `toml:"model,omitempty"`
	APIKey   string `toml:"api_key,omitempty"`

	FallbackProvider string `toml:"fallback_provider,omitempty"`
	FallbackTarget   string `toml:"fallback_target,omitempty"`
	FallbackModel    string `toml:"fallback_model,omitempty"`
	FallbackAPIKey   string `toml:"fallback_api_key,omitempty"`
}

// SearchConfig holds query-time settings.
type SearchConfig struct {
	DefaultTopK int `toml:"default_top_k,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"storage.sqlite_path": {
		get: func(c *Config) string { return c.Storage.SQLitePath },
		set: func(c *Config, v string) error { c.Storage.SQLitePath = v; return nil },
	},
	"chunking.token_budget": {
		get: func(c *Config) string { return strconv.Itoa(c.Chunking.TokenBudget) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for chunking.token_budget: %w", err)
			}
			c.Chunking.TokenBudget = n
			return nil
		},
	},
	"chunking.overlap_ratio": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Chunking.OverlapRatio, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for chunking.overlap_ratio: %w", err)
			}
			c.Chunking.OverlapRatio = f
			return nil
		},
	},
	"embedding.provider": {
		get: func(c *Config) string { return c.Embedding.Provider },
		set: func(c *Config, v string) error { c.Embedding.Provider = v; return nil },
	},
	"embedding.target": {
		get: func(c *Config) string { return c.Embedding.Target },
		set: func(c *Config, v string) error { c.Embedding.Target = v; return nil },
	},
	"embedding.model": {
		get: func(c *Config) string { return c.Embedding.Model },
		set: func(c *Config, v string) error { c.Embedding.Model = v; return nil },
	},
	"embedding.api_key": {
		get: func(c *Config) string { return c.Embedding.APIKey },
		set: func(c *Config, v string) error { c.Embedding.APIKey = v; return nil },
	},
	"embedding.fallback_provider": {
		get: func(c *Config) string { return c.Embedding.FallbackProvider },
		set: func(c *Config, v string) error { c.Embedding.FallbackProvider = v; return nil },
	},
	"embedding.fallback_target": {
		get: func(c *Config) string { return c.Embedding.FallbackTarget },
		set: func(c *Config, v string) error { c.Embedding.FallbackTarget = v; return nil },
	},
	"embedding.fallback_model": {
		get: func(c *Config) string { return c.Embedding.FallbackModel },
		set: func(c *Config, v string) error { c.Embedding.FallbackModel = v; return nil },
	},
	"embedding.fallback_api_key": {
		get: func(c *Config) string { return c.Embedding.FallbackAPIKey },
		set: func(c *Config, v string) error { c.Embedding.FallbackAPIKey = v; return nil },
	},
	"search.default_top_k": {
		get: func(c *Config) string { return strconv.Itoa(c.Search.DefaultTopK) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid value for search.default_top_k: %w", err)
			}
			c.Search.DefaultTopK = n
			return nil
		},
	},
}
