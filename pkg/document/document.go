// Package document loads source documents for indexing. Unreadable files
// are skipped with a warning rather than failing the run.
package document

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the optional document-level attributes parsed from a
// leading `---` block.
type FrontMatter struct {
	Universe   string   `yaml:"universe"`
	Species    string   `yaml:"species"`
	Subspecies string   `yaml:"subspecies"`
	Aliases    []string `yaml:"aliases"`
}

// Document is a named source unit, consumed once per index run.
type Document struct {
	// Path is the source file path, relative to the indexed root when
	// loaded via LoadDir.
	Path string

	// Text is the document body with front matter removed and control
	// characters cleaned.
	Text string

	Meta FrontMatter
}

// indexableExts are the file extensions picked up by LoadDir.
var indexableExts = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".txt":      {},
}

// LoadDir walks root for indexable files in traversal order. Files that
// cannot be read or parsed are skipped with a warning.
func LoadDir(root string, logger *zap.Logger) ([]Document, error) {
	var docs []Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path",
				zap.String("path", path),
				zap.Error(err),
			)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := indexableExts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		doc, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping document",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil
		}

		if rel, relErr := filepath.Rel(root, path); relErr == nil {
			doc.Path = rel
		}
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return docs, nil
}

// LoadFile reads and prepares a single document.
func LoadFile(path string) (*Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	text := string(raw)
	meta, body, err := splitFrontMatter(text)
	if err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}

	return &Document{
		Path: path,
		Text: CleanText(body),
		Meta: meta,
	}, nil
}

// splitFrontMatter peels an optional leading `---` YAML block off the
// document body.
func splitFrontMatter(text string) (FrontMatter, string, error) {
	var fm FrontMatter

	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return fm, text, nil
	}

	rest := text[strings.Index(text, "\n")+1:]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, text, nil
	}

	block := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(strings.TrimPrefix(body, "\r"), "\n")

	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		return FrontMatter{}, "", err
	}
	return fm, body, nil
}

var (
	controlRe = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	newlineRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText removes control characters (except newlines and tabs),
// normalizes line endings, and collapses runs of 3+ newlines into 2.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = controlRe.ReplaceAllString(text, "")
	text = newlineRe.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}
