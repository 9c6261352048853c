package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
)

// NewDumpBytesCommand creates the "dump-bytes" command. It prints the
// m_Script payload of the first object whose path ends with --suffix.
func NewDumpBytesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-bytes",
		Short: "Dump the raw payload of the first asset with a path suffix",
		Long: `Print the first object whose container path ends with --suffix.

The path is printed with the length of the object's m_Script payload,
followed by the first --limit bytes as a byte-string literal. Later matches
are ignored. When nothing matches nothing is printed.

Examples:
  assetpeek dump-bytes
  assetpeek dump-bytes --suffix LevelList_2.bytes --limit 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			env, err := openBundle(cmd.Context(), cfg, stringFlag(cmd, "bundle", cfg.Bundle))
			if err != nil {
				return err
			}

			matcher := bundle.HasSuffix(stringFlag(cmd, "suffix", cfg.Filters.Bytes))
			found, err := bundle.DumpBytes(cmd.OutOrStdout(), env, matcher, intFlag(cmd, "limit", cfg.Limits.Bytes))
			if err != nil {
				return err
			}
			if !found {
				VerboseLog("No object matched %s", matcher)
			}
			return nil
		},
	}

	cmd.Flags().String("bundle", "", "Asset bundle to inspect (default from config)")
	cmd.Flags().String("suffix", "", "Suffix the container path must end with (default from config)")
	cmd.Flags().Int("limit", bundle.DefaultBytesLimit, "Bytes of payload to print")

	return cmd
}
