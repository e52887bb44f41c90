package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found under configDir or the working directory's .loreindex/), and
// binds environment variables with the LOREINDEX_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound by commands)
//  2. Environment variables (LOREINDEX_STORAGE_SQLITE_PATH, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	target := configDir
	if target == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving working directory: %w", err)
		}
		target = filepath.Join(cwd, DotDir)
	}
	v.AddConfigPath(target)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: LOREINDEX_EMBEDDING_MODEL, etc.
	v.SetEnvPrefix("LOREINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// LoadRuntime resolves the effective runtime configuration through viper:
// defaults, overlaid by config.toml, overlaid by LOREINDEX_* environment
// variables. Commands that only read configuration should use this;
// Configer remains the write path for config get/set.
func LoadRuntime(configDir string) (*Config, error) {
	v, err := InitViper(configDir)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Version: v.GetInt("version"),
		Storage: StorageConfig{
			SQLitePath: v.GetString("storage.sqlite_path"),
		},
		Chunking: ChunkingConfig{
			TokenBudget:  v.GetInt("chunking.token_budget"),
			OverlapRatio: v.GetFloat64("chunking.overlap_ratio"),
		},
		Embedding: EmbeddingConfig{
			Provider: v.GetString("embedding.provider"),
			Target:   v.GetString("embedding.target"),
			Model:    v.GetString("embedding.model"),
			APIKey:   v.GetString("embedding.api_key"),

			FallbackProvider: v.GetString("embedding.fallback_provider"),
			FallbackTarget:   v.GetString("embedding.fallback_target"),
			FallbackModel:    v.GetString("embedding.fallback_model"),
			FallbackAPIKey:   v.GetString("embedding.fallback_api_key"),
		},
		Search: SearchConfig{
			DefaultTopK: v.GetInt("search.default_top_k"),
		},
	}

	if cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Storage
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)

	// Chunking
	v.SetDefault("chunking.token_budget", d.Chunking.TokenBudget)
	v.SetDefault("chunking.overlap_ratio", d.Chunking.OverlapRatio)

	// Embedding
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.target", d.Embedding.Target)
	v.SetDefault("embedding.model", d.Embedding.Model)

	// Search
	v.SetDefault("search.default_top_k", d.Search.DefaultTopK)
}
