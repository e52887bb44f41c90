// Package indexcmder provides the index command for running the chunking,
// analysis, embedding and storage pipeline over a lore directory.
package indexcmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/cmd/loreindex/sqlitepath"
	"github.com/thornmill/loreindex/pkg/analyzer"
	"github.com/thornmill/loreindex/pkg/chunk"
	"github.com/thornmill/loreindex/pkg/cliui"
	"github.com/thornmill/loreindex/pkg/config"
	embeddingutils "github.com/thornmill/loreindex/pkg/embeddings/utils"
	"github.com/thornmill/loreindex/pkg/index"
	"github.com/thornmill/loreindex/pkg/logger"
	"github.com/thornmill/loreindex/pkg/store/sqlitevec"
)

type indexCommander struct {
	root  string
	watch bool

	sqlitePath string

	debug  bool
	logger *zap.Logger
}

const indexLongDesc string = `Index a directory of lore documents.

Walks the directory for markdown and plain-text files, splits each into
heading-scoped sections, chunks oversized sections with overlap, extracts
entities, concepts and importance from each chunk, embeds the chunk text,
and stores records and vectors in the SQLite database.

Chunk IDs are deterministic, so re-running over unchanged content
overwrites the same rows in place. Interrupted runs are safe to rerun.

Use --watch to keep running after the initial pass and re-index files as
they are created or modified.

Examples:
  loreindex index ./lore
  loreindex index ./lore --watch
  loreindex index ./lore --sqlite /tmp/scratch.db`

const indexShortDesc string = "Index a directory of lore documents"

func NewIndexCmd() *cobra.Command {
	cmder := &indexCommander{}

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: indexShortDesc,
		Long:  indexLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.root = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	cmd.Flags().BoolVarP(&cmder.watch, "watch", "w", false, "Keep watching the directory and re-index changed files")
	cmd.Flags().StringVar(&cmder.sqlitePath, "sqlite", "", "Path to the SQLite database (overrides config)")

	return cmd
}

func (c *indexCommander) run(configDir string) error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	cfg, err := config.LoadRuntime(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType:     cfg.Embedding.Provider,
		TargetURL:        cfg.Embedding.Target,
		Model:            cfg.Embedding.Model,
		APIKey:           cfg.Embedding.APIKey,
		FallbackProvider: cfg.Embedding.FallbackProvider,
		FallbackTarget:   cfg.Embedding.FallbackTarget,
		FallbackModel:    cfg.Embedding.FallbackModel,
		FallbackAPIKey:   cfg.Embedding.FallbackAPIKey,
		Logger:           c.logger,
	})
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}
	defer embedder.Close()

	dbPath := sqlitepath.Resolve(c.sqlitePath, cfg.Storage.SQLitePath)
	st, err := sqlitevec.NewSQLiteVecStore(sqlitevec.Config{DBPath: dbPath}, c.logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	splitter, err := chunk.NewSplitter(cfg.Chunking.TokenBudget, cfg.Chunking.OverlapRatio)
	if err != nil {
		return fmt.Errorf("configuring splitter: %w", err)
	}
	assembler := chunk.NewAssembler(splitter, analyzer.NewHeuristic())
	ix := index.NewIndexer(assembler, embedder, st, c.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var result *index.Result
	err = cliui.Step(os.Stdout, fmt.Sprintf("Indexing %s", c.root), func() error {
		var stepErr error
		result, stepErr = ix.IndexDir(ctx, c.root)
		return stepErr
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Indexed %s documents, %s chunks %s\n\n",
		cliui.SuccessMark,
		cliui.ValueStyle.Render(fmt.Sprintf("%d", result.Documents)),
		cliui.ValueStyle.Render(fmt.Sprintf("%d", result.Chunks)),
		cliui.DimStyle.Render("("+dbPath+")"),
	)

	if !c.watch {
		return nil
	}

	fmt.Printf("  %s\n\n", cliui.DimStyle.Render("Watching for changes. Ctrl-C to stop."))
	if err := ix.Watch(ctx, c.root); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
