// Package sqlitepath resolves the location of the loreindex SQLite database.
package sqlitepath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/thornmill/loreindex/pkg/config"
)

// Resolve picks the database path from, in order: the CLI override, the
// LOREINDEX_SQLITE / LOREINDEX_DB environment variables, and the configured
// path. A relative configured path is anchored inside the .loreindex/
// directory when one exists in the working directory.
func Resolve(override, configured string) string {
	if override != "" {
		return override
	}

	if envPath := strings.TrimSpace(os.Getenv("LOREINDEX_SQLITE")); envPath != "" {
		return envPath
	}
	if envPath := strings.TrimSpace(os.Getenv("LOREINDEX_DB")); envPath != "" {
		return envPath
	}

	if configured == "" {
		configured = "loreindex.db"
	}

	if !filepath.IsAbs(configured) {
		if info, err := os.Stat(config.DotDir); err == nil && info.IsDir() {
			return filepath.Join(config.DotDir, configured)
		}
	}

	return configured
}
