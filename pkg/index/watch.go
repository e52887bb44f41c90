package index

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/pkg/document"
)

// Watch re-indexes documents under root as they change. Because chunk IDs
// are deterministic and upserts are idempotent, re-indexing a file on
// every write event is safe. Blocks until ctx is done.
func (ix *Indexer) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch root and every subdirectory; fsnotify is not recursive.
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	ix.logger.Info("watching for changes", zap.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			// New directories need their own watch.
			if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
				if event.Has(fsnotify.Create) {
					_ = watcher.Add(event.Name)
				}
				continue
			}

			if !indexableExt(event.Name) {
				continue
			}
			ix.reindexFile(ctx, root, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			ix.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (ix *Indexer) reindexFile(ctx context.Context, root, path string) {
	doc, err := document.LoadFile(path)
	if err != nil {
		ix.logger.Warn("skipping changed document",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}
	if rel, err := filepath.Rel(root, path); err == nil {
		doc.Path = rel
	}

	n, err := ix.IndexDocument(ctx, *doc)
	if err != nil {
		ix.logger.Error("re-indexing changed document failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return
	}

	ix.logger.Info("re-indexed changed document",
		zap.String("path", doc.Path),
		zap.Int("chunks", n),
	)
}

func indexableExt(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		return true
	}
	return false
}
