// Package loreindexcmder
package loreindexcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/thornmill/loreindex/cmd/loreindex/config"
	indexcmder "github.com/thornmill/loreindex/cmd/loreindex/index"
	initcmder "github.com/thornmill/loreindex/cmd/loreindex/init"
	searchcmder "github.com/thornmill/loreindex/cmd/loreindex/search"
	statuscmder "github.com/thornmill/loreindex/cmd/loreindex/status"
	versioncmder "github.com/thornmill/loreindex/cmd/version"
)

const loreindexLongDesc string = `Loreindex builds a searchable semantic index over worldbuilding lore.

Point it at a directory of markdown lore documents:
  loreindex init               Create a local .loreindex/ directory
  loreindex index <dir>        Chunk, analyze, embed and store documents
  loreindex search <query>     Semantic search over indexed chunks
  loreindex status             Show index statistics`

const loreindexShortDesc string = "Loreindex - Lore Document Index"

func NewLoreindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loreindex",
		Short: loreindexShortDesc,
		Long:  loreindexLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .loreindex/ config directory")

	// Add subcommands
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(indexcmder.NewIndexCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
