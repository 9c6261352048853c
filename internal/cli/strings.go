package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/strscan"
)

// NewStringsCommand creates the "strings" command, which greps the
// NUL-separated strings of an IL2CPP metadata file.
func NewStringsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strings",
		Short: "List distinct metadata strings containing a substring",
		Long: `Split global-metadata.dat on NUL bytes and print the distinct strings
that contain --filter, sorted, at most --limit of them.

Invalid UTF-8 is dropped from each string. An empty --filter matches every
string.

Examples:
  assetpeek strings
  assetpeek strings --filter Board --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := stringFlag(cmd, "metadata", cfg.Metadata)
			VerboseLog("Scanning %s", path)
			results, err := strscan.ScanFile(path, stringFlag(cmd, "filter", cfg.Filters.Strings))
			if err != nil {
				return err
			}
			VerboseLog("%d distinct strings matched", len(results))

			return strscan.Print(cmd.OutOrStdout(), results, intFlag(cmd, "limit", cfg.Limits.Strings))
		},
	}

	cmd.Flags().String("metadata", "", "Metadata file to scan (default from config)")
	cmd.Flags().String("filter", strscan.DefaultFilter, "Substring each string must contain")
	cmd.Flags().Int("limit", strscan.DefaultLimit, "Maximum number of strings to print")

	return cmd
}
