// prune.go implements the "assetpeek prune" command.
//
// The docker runtime normally starts extractor containers with --rm. When
// docker.keep_containers is set they stay behind for debugging, and prune
// removes them. Containers are found by the assetpeek.managed-by label,
// so unrelated containers are never touched.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/docker"
	"github.com/shinji-kodama/assetpeek/internal/model"
)

// pruneFlags holds the flag values for the prune command.
type pruneFlags struct {
	// dryRun lists the containers without removing them.
	dryRun bool
}

// NewPruneCommand creates the "prune" cobra command.
func NewPruneCommand() *cobra.Command {
	flags := &pruneFlags{}

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove leftover extractor containers",
		Long: `Remove every container started by the docker runtime.

Running containers are killed first. Use --dry-run to only list them.

Examples:
  assetpeek prune
  assetpeek prune --dry-run --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(cmd.Context(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "List containers without removing them")

	return cmd
}

func runPrune(ctx context.Context, out io.Writer, flags *pruneFlags) error {
	dockerCli, err := docker.NewClient()
	if err != nil {
		return err
	}
	defer dockerCli.Close()

	if err := dockerCli.Ping(ctx); err != nil {
		return err
	}

	containers, err := docker.ListExtractorContainers(ctx, dockerCli)
	if err != nil {
		return err
	}
	VerboseLog("Found %d extractor containers", len(containers))

	removed := make([]model.ExtractorContainer, 0, len(containers))
	for _, c := range containers {
		if !flags.dryRun {
			if err := docker.RemoveContainer(ctx, dockerCli, c.ContainerID, true); err != nil {
				return err
			}
		}
		removed = append(removed, c)
	}

	return printPruneResult(out, removed, flags.dryRun)
}

// printPruneResult reports the pruned containers as text or JSON.
func printPruneResult(w io.Writer, containers []model.ExtractorContainer, dryRun bool) error {
	if IsJSONOutput() {
		data, err := json.MarshalIndent(containers, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	if len(containers) == 0 {
		_, err := fmt.Fprintln(w, "No extractor containers found.")
		return err
	}

	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	for _, c := range containers {
		if _, err := fmt.Fprintf(w, "%s %s (%s, %s)\n", verb, shortID(c.ContainerID), c.Status, c.BundleDigest); err != nil {
			return err
		}
	}
	return nil
}

// shortID truncates a container ID to the 12 characters docker ps shows.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
