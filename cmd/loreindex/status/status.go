// Package statuscmder provides the status command for inspecting the index.
package statuscmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thornmill/loreindex/cmd/loreindex/sqlitepath"
	"github.com/thornmill/loreindex/pkg/cliui"
	"github.com/thornmill/loreindex/pkg/config"
	"github.com/thornmill/loreindex/pkg/logger"
	"github.com/thornmill/loreindex/pkg/store/sqlitevec"
)

const statusLongDesc string = `Show index statistics.

Opens the SQLite database and reports the stored chunk count and the
pinned embedding dimension.

Examples:
  loreindex status
  loreindex status --sqlite /tmp/scratch.db`

const statusShortDesc string = "Show index statistics"

func NewStatusCmd() *cobra.Command {
	var sqlitePath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(configDir, sqlitePath, debug)
		},
	}

	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Path to the SQLite database (overrides config)")

	return cmd
}

func runStatus(configDir, sqlitePath string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadRuntime(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dbPath := sqlitepath.Resolve(sqlitePath, cfg.Storage.SQLitePath)
	st, err := sqlitevec.NewSQLiteVecStore(sqlitevec.Config{DBPath: dbPath}, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()

	count, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	dimDisplay := "<not set>"
	dim, err := st.Dimension(ctx)
	if err != nil {
		return fmt.Errorf("reading dimension: %w", err)
	}
	if dim > 0 {
		dimDisplay = fmt.Sprintf("%d", dim)
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("Database: "), cliui.ValueStyle.Render(dbPath))
	fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Chunks:   "), cliui.ValueStyle.Render(fmt.Sprintf("%d", count)))
	fmt.Printf("  %s %s\n\n", cliui.KeyStyle.Render("Dimension:"), cliui.ValueStyle.Render(dimDisplay))

	return nil
}
