// Package main is the entry point for the assetpeek CLI.
//
// The binary inspects Unity asset bundles and IL2CPP metadata. It delegates
// all functionality to the internal/cli package, which defines the cobra
// commands.
//
// Build-time variables (version, commit, date) are injected via ldflags.
// During development they default to "dev", "none", and "unknown".
package main

import (
	"github.com/shinji-kodama/assetpeek/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	cli.Execute(cli.NewRootCommand())
}
