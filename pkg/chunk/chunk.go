// Package chunk turns sections into size-bounded, independently
// retrievable chunks with deterministic identifiers and derived metadata.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Metadata is the persisted per-chunk metadata.
type Metadata struct {
	Universe        string   `json:"universe,omitempty"`
	Species         string   `json:"species,omitempty"`
	Subspecies      string   `json:"subspecies,omitempty"`
	SourceFile      string   `json:"source_file"`
	SectionPath     string   `json:"section_path"`
	SectionTitle    string   `json:"section_title,omitempty"`
	ParentSection   string   `json:"parent_section,omitempty"`
	Entities        []string `json:"entities"`
	Concepts        []string `json:"concepts"`
	ContentType     string   `json:"content_type"`
	ImportanceScore float64  `json:"importance_score"`
	Aliases         []string `json:"aliases"`

	// ParentChunkID is a grouping tag, not a foreign key: it names the
	// pre-split section ("source_file:section_path"), which never itself
	// becomes a stored row. Set only when a section split into two or
	// more blocks.
	ParentChunkID string `json:"parent_chunk_id,omitempty"`
}

// Chunk is an immutable, independently retrievable unit of text.
type Chunk struct {
	// ID is a deterministic hash of (source file, section path, sub-index).
	// Re-baking the same logical chunk from unchanged content produces the
	// same ID, which makes upserts idempotent.
	ID       string
	Text     string
	Metadata Metadata
}

// ID derives the stable chunk identifier. subIndex is -1 for a chunk that
// is the whole of its section, or the 0-based block index after a split.
func ID(sourceFile, sectionPath string, subIndex int) string {
	key := sourceFile + ":" + sectionPath
	if subIndex >= 0 {
		key = fmt.Sprintf("%s:%d", key, subIndex)
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

// ParentID derives the synthetic section-level identifier used as the
// parent_chunk_id grouping tag for split blocks.
func ParentID(sourceFile, sectionPath string) string {
	return sourceFile + ":" + sectionPath
}

// ContentHash hashes chunk text for change detection.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
