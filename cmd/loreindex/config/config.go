// Package configcmder provides the config command for managing persistent
// loreindex configuration stored in the .loreindex/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent loreindex configuration.

Configuration is stored as config.toml in the .loreindex/ directory and
provides default values for command flags. CLI flags always take precedence
over config file values.

Keys use dotted notation matching the TOML section structure:
  storage.sqlite_path,
  chunking.token_budget, chunking.overlap_ratio,
  embedding.provider, embedding.target, embedding.model, embedding.api_key,
  embedding.fallback_provider, embedding.fallback_target,
  embedding.fallback_model, embedding.fallback_api_key,
  search.default_top_k

Use subcommands to get, set, or list configuration values:
  loreindex config set <key> <value>    Set a configuration value
  loreindex config get <key>            Get a configuration value
  loreindex config list                 List all configuration values

Examples:
  loreindex config set embedding.model nomic-embed-text
  loreindex config set chunking.token_budget 450
  loreindex config get embedding.provider
  loreindex config list`

const configShortDesc string = "Manage persistent loreindex configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
