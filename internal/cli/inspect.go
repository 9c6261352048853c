package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
)

// NewInspectCommand creates the "inspect" command, which prints every
// serialized field of the first object whose path ends with --suffix.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print every field of the first asset with a path suffix",
		Long: `Print the first object whose container path ends with --suffix, with
all of its serialized fields sorted by name as "name: kind = value".

String and byte values longer than --limit are cut and marked with "...".

Examples:
  assetpeek inspect
  assetpeek inspect --suffix LevelList_1.bytes --limit 32`,
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

			matcher := bundle.HasSuffix(stringFlag(cmd, "suffix", cfg.Filters.Inspect))
			found, err := bundle.DumpFields(cmd.OutOrStdout(), env, matcher, intFlag(cmd, "limit", cfg.Limits.Fields))
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
	cmd.Flags().Int("limit", bundle.DefaultFieldLimit, "Characters or bytes of each value to print")

	return cmd
}
