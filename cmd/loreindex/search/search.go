// Package searchcmder provides the search command for semantic search over
// indexed lore chunks.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thornmill/loreindex/cmd/loreindex/sqlitepath"
	"github.com/thornmill/loreindex/pkg/config"
	embeddingutils "github.com/thornmill/loreindex/pkg/embeddings/utils"
	"github.com/thornmill/loreindex/pkg/logger"
	"github.com/thornmill/loreindex/pkg/search"
	"github.com/thornmill/loreindex/pkg/store/sqlitevec"
	"github.com/thornmill/loreindex/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	query   string
	topK    int
	jsonOut bool
	full    bool

	universe      string
	species       string
	subspecies    string
	contentType   string
	minImportance float64

	sqlitePath string

	debug  bool
	logger *zap.Logger
}

const searchLongDesc string = `Search indexed lore chunks.

Embeds the query, fetches nearest neighbors from the SQLite database, and
re-ranks them by combining vector similarity with metadata matches: entity
and concept hits, section titles, importance, and content type.

Filters narrow results by exact metadata match. A chunk whose metadata
fails to parse is never filtered out; it falls back to plain similarity.

Use --json to emit the full response envelope for piping into other tools.

Examples:
  loreindex search "coronation rites"
  loreindex search "winter migration" --species thornfolk --top 10
  loreindex search "sayings about the moons" --type quote --min-importance 0.6
  loreindex search "founding of the capital" --json | jq '.hits[0]'`

const searchShortDesc string = "Search indexed lore chunks"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			cfg, err := config.LoadRuntime(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			if !cmd.Flags().Changed("top") {
				cmder.topK = cfg.Search.DefaultTopK
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]

			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			return cmder.run(configDir)
		},
	}

	defaults := config.NewDefaultConfig()
	cmd.Flags().IntVarP(&cmder.topK, "top", "k", defaults.Search.DefaultTopK, "Number of results to return")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Emit the full JSON response envelope")
	cmd.Flags().BoolVar(&cmder.full, "full", false, "Print full chunk text instead of previews")
	cmd.Flags().StringVar(&cmder.universe, "universe", "", "Filter by universe")
	cmd.Flags().StringVar(&cmder.species, "species", "", "Filter by species")
	cmd.Flags().StringVar(&cmder.subspecies, "subspecies", "", "Filter by subspecies")
	cmd.Flags().StringVar(&cmder.contentType, "type", "", "Filter by content type (narrative, list, quote, mixed)")
	cmd.Flags().Float64Var(&cmder.minImportance, "min-importance", 0, "Minimum importance score")
	cmd.Flags().StringVar(&cmder.sqlitePath, "sqlite", "", "Path to the SQLite database (overrides config)")

	return cmd
}

func (c *searchCommander) run(configDir string) error {
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

	searcher := search.NewSearcher(embedder, st, c.logger)
	output, err := searcher.Search(context.Background(), c.query, c.topK, search.Filters{
		Universe:      c.universe,
		Species:       c.species,
		Subspecies:    c.subspecies,
		ContentType:   c.contentType,
		MinImportance: c.minImportance,
	})
	if err != nil {
		return err
	}

	if c.jsonOut {
		data, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if output.ResultsFound == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("\n%s %s\n\n",
		headerStyle.Render("Search Results for:"),
		pathStyle.Render(fmt.Sprintf("%q", output.Query)),
	)

	for i, hit := range output.Hits {
		c.printHit(i+1, hit)
	}

	return nil
}

func (c *searchCommander) printHit(rank int, hit search.Hit) {
	fmt.Printf("  %s  %s  %s\n",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.4f", hit.RelevanceScore)),
		pathStyle.Render(hit.Path+" § "+hit.Section),
	)

	if hit.Title != "" {
		fmt.Printf("  %s\n", titleStyle.Render(hit.Title))
	}
	fmt.Printf("  %s\n", dimStyle.Render(fmt.Sprintf("%s, importance %.2f", hit.ContentType, hit.Importance)))

	if len(hit.Entities) > 0 {
		fmt.Printf("  %s %s\n", dimStyle.Render("entities:"), previewStyle.Render(strings.Join(hit.Entities, ", ")))
	}
	if len(hit.Concepts) > 0 {
		fmt.Printf("  %s %s\n", dimStyle.Render("concepts:"), previewStyle.Render(strings.Join(hit.Concepts, ", ")))
	}

	text := hit.Chunk
	if c.full && hit.FullChunk != "" {
		text = hit.FullChunk
	}
	if !c.full {
		text = utils.Truncate(strings.ReplaceAll(text, "\n", " "), 160)
	}
	fmt.Printf("  %s\n\n", previewStyle.Render(text))
}
