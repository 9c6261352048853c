// export.go implements the "assetpeek export" command.
//
// Export runs the extractor once and writes the resulting snapshot, so a
// bundle can later be inspected with --snapshot on a machine that has
// neither Python nor Docker.

package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/snapshot"
	"github.com/shinji-kodama/assetpeek/internal/zstdio"
)

// exportFlags holds the flag values for the export command.
type exportFlags struct {
	bundle string
	output string
	format string
}

// NewExportCommand creates the "export" cobra command.
func NewExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a bundle's objects to a snapshot file",
		Long: `Resolve every object in a bundle and write them as a snapshot.

The snapshot is JSON by default, YAML when --format yaml is given or the
output name ends in .yaml/.yml. A .zst suffix compresses the file with
zstd. Without --output the snapshot is written to stdout.

Examples:
  assetpeek export -o level.json.zst
  assetpeek export --format yaml
  assetpeek export --snapshot level.json -o level.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.bundle, "bundle", "", "Asset bundle to export (default from config)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&flags.format, "format", "", "Snapshot format: json, yaml (default: from output name, else json)")

	return cmd
}

func runExport(cmd *cobra.Command, flags *exportFlags) error {
	format, err := exportFormat(flags.format, flags.output)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "invalid --format", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Bundle
	if flags.bundle != "" {
		path = flags.bundle
	}
	env, err := openBundle(cmd.Context(), cfg, path)
	if err != nil {
		return err
	}

	source := path
	if cfg.Runtime == model.RuntimeSnapshot {
		source = cfg.Snapshot
	}
	s, err := snapshot.FromEnvironment(env, filepath.Base(source))
	if err != nil {
		return err
	}

	if flags.output == "" {
		data, err := snapshot.Marshal(s, format)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	if err := snapshot.WriteFile(flags.output, s, format); err != nil {
		return err
	}
	VerboseLog("Wrote %d objects to %s (%s)", len(s.Entries), flags.output, format)
	return nil
}

// exportFormat picks the snapshot format from the flag, falling back to
// the output file name.
func exportFormat(flag, output string) (model.SnapshotFormat, error) {
	if flag != "" {
		return model.ParseSnapshotFormat(flag)
	}
	name := strings.TrimSuffix(strings.ToLower(output), zstdio.Ext)
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		return model.FormatYAML, nil
	default:
		return model.FormatJSON, nil
	}
}
