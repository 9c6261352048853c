package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
)

// NewDumpTextCommand creates the "dump-text" command. It prints every
// object whose path contains --match, with a prefix of its text and
// script payloads.
func NewDumpTextCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-text",
		Short: "Dump text assets whose path contains a substring",
		Long: `Dump every object whose container path contains --match.

For each match the path, the object's field names, the text length in
characters, the script length in bytes, the first --text-limit characters
of the text and the first --script-limit bytes of the script are printed.
A negative limit prints the whole payload.

Examples:
  assetpeek dump-text
  assetpeek dump-text --match LevelList --text-limit 1000`,
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

			matcher := bundle.Contains(stringFlag(cmd, "match", cfg.Filters.Text))
			opts := bundle.TextDumpOptions{
				TextLimit:   intFlag(cmd, "text-limit", cfg.Limits.Text),
				ScriptLimit: intFlag(cmd, "script-limit", cfg.Limits.Script),
			}

			n, err := bundle.DumpText(cmd.OutOrStdout(), env, matcher, opts)
			if err != nil {
				return err
			}
			VerboseLog("%d objects matched %s", n, matcher)
			return nil
		},
	}

	cmd.Flags().String("bundle", "", "Asset bundle to inspect (default from config)")
	cmd.Flags().String("match", "", "Substring the container path must contain (default from config)")
	cmd.Flags().Int("text-limit", bundle.DefaultTextLimit, "Characters of text to print")
	cmd.Flags().Int("script-limit", bundle.DefaultScriptLimit, "Bytes of script to print")

	return cmd
}
