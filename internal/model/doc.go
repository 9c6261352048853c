// Package model defines the shared value types for the assetpeek CLI.
//
// This package contains pure data structures with no external dependencies:
// the extractor runtime selector, snapshot formats, the description of
// extractor containers reconstructed from Docker labels, and the exit codes
// (ExitCode) carried by CLIError for proper OS process exit handling.
package model
