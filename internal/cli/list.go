// list.go implements the "assetpeek list" command.
//
// The list command resolves every object in a bundle's container and
// prints "path -> Type" per object, in container order. With --json the
// same pairs are written as a JSON array.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// bundle is the asset bundle to list. Empty means the configured default.
	bundle string
}

// objectJSON is the JSON representation of one container entry.
type objectJSON struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// NewListCommand creates the "list" cobra command.
// It is called from NewRootCommand to register as a subcommand.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every object in an asset bundle",
		Long: `List every object in an asset bundle's container.

Each object is resolved through UnityPy and printed as "path -> Type".
Nothing is filtered; a bundle with N objects prints N lines.

Examples:
  assetpeek list
  assetpeek list --bundle path/to/level.bundle
  assetpeek list --snapshot level.json.zst --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.bundle, "bundle", "", "Asset bundle to inspect (default from config)")

	return cmd
}

// runList is the main logic function for the list command.
func runList(ctx context.Context, cmd *cobra.Command, flags *listFlags) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cfg.Bundle
	if flags.bundle != "" {
		path = flags.bundle
	}

	env, err := openBundle(ctx, cfg, path)
	if err != nil {
		return err
	}
	VerboseLog("Container holds %d objects", env.Len())

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printObjectsJSON(out, env)
	}
	return bundle.ListObjects(out, env)
}

// printObjectsJSON writes the container as a JSON array of path/type pairs.
func printObjectsJSON(w io.Writer, env *bundle.Environment) error {
	objects := make([]objectJSON, 0, env.Len())
	for _, entry := range env.Container() {
		val, err := entry.Object.Read()
		if err != nil {
			return fmt.Errorf("resolve %s: %w", entry.Path, err)
		}
		objects = append(objects, objectJSON{Path: entry.Path, Type: val.TypeName})
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
