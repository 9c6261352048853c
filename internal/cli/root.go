// Package cli implements the cobra-based CLI commands for assetpeek.
//
// Each subcommand (digest, list, dump-text, dump-bytes, inspect, strings,
// export, prune, cache) is defined in its own file within this package.
// This file defines the root command that serves as the parent for all
// subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	// Only list and prune honor it; the dump commands always
	// print the human-readable form.
	jsonOutput bool

	// verbose enables detailed logging output for debugging.
	// When true, additional information about operations is printed to stderr.
	verbose bool

	// configPath is an explicit config file. Empty means discovery in
	// the working directory.
	configPath string

	// runtimeName overrides the configured extractor runtime.
	runtimeName string

	// snapshotPath reads bundles from a snapshot file. Setting it implies
	// --runtime snapshot.
	snapshotPath string

	// noCache bypasses the extractor cache for this invocation.
	noCache bool
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
// This is the entry point for the entire CLI application.
//
// The root command itself does not perform any action. It only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "assetpeek",
		Short: "Inspect Unity asset bundles and IL2CPP metadata",
		Long: `assetpeek pokes at the internals of a Unity game: it decodes base64
blobs, lists the objects inside an asset bundle, dumps named assets and greps
strings out of global-metadata.dat.

Bundle parsing is delegated to UnityPy, run either with a local Python
interpreter (--runtime python) or inside a container (--runtime docker).
Snapshots written by "assetpeek export" can be inspected offline with
--snapshot.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOutput, "json", false, "Output in JSON format (list, prune)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	pf.StringVar(&configPath, "config", "", "Config file (default: assetpeek.yaml or assetpeek.jsonc in the working directory)")
	pf.StringVar(&runtimeName, "runtime", "", "Extractor runtime: python, docker, snapshot")
	pf.StringVar(&snapshotPath, "snapshot", "", "Read bundle contents from a snapshot file instead of running UnityPy")
	pf.BoolVar(&noCache, "no-cache", false, "Do not read or write the extractor cache")

	rootCmd.AddCommand(NewDigestCommand())
	rootCmd.AddCommand(NewListCommand())
	rootCmd.AddCommand(NewDumpTextCommand())
	rootCmd.AddCommand(NewDumpBytesCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewStringsCommand())
	rootCmd.AddCommand(NewExportCommand())
	rootCmd.AddCommand(NewPruneCommand())
	rootCmd.AddCommand(NewCacheCommand())

	return rootCmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// CLIError types carry their own exit codes; other errors default to
// exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr.Message, cliErr.Err)
			os.Exit(int(cliErr.Code))
		}

		printError(err.Error(), nil)
		os.Exit(int(model.ExitGeneralError))
	}
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(message string, underlying error) {
	if jsonOutput {
		errObj := map[string]interface{}{
			"error": map[string]interface{}{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]interface{}); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// command output.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		if underlying != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", message, underlying)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", message)
		}
	}
}

// VerboseLog prints a message to stderr only when verbose mode is enabled.
// Output on stdout is never affected, so verbose runs print the same
// inspection results as quiet ones.
func VerboseLog(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
