// env.go resolves configuration and builds the extractor
// pipeline shared by every bundle command.

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
	"github.com/shinji-kodama/assetpeek/internal/cache"
	"github.com/shinji-kodama/assetpeek/internal/config"
	"github.com/shinji-kodama/assetpeek/internal/docker"
	"github.com/shinji-kodama/assetpeek/internal/extractor"
	"github.com/shinji-kodama/assetpeek/internal/model"
)

// loadConfig resolves the config file and applies the global flag
// overrides. Precedence is flags > file > built-in defaults.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, used, err := config.Resolve(configPath, wd)
	if err != nil {
		return nil, err
	}
	if used != "" {
		VerboseLog("Using config %s", used)
	}

	if snapshotPath != "" {
		cfg.Snapshot = snapshotPath
		cfg.Runtime = model.RuntimeSnapshot
	}
	if runtimeName != "" {
		r, err := model.ParseRuntime(runtimeName)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidConfig, "invalid --runtime", err)
		}
		cfg.Runtime = r
	}
	if noCache {
		cfg.Cache.Disabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidConfig, "invalid configuration", err)
	}
	return cfg, nil
}

// newRunner builds the extractor runner for the configured runtime.
// The docker runtime checks that the daemon answers before anything runs.
func newRunner(ctx context.Context, cfg *config.Config) (extractor.Runner, error) {
	switch cfg.Runtime {
	case model.RuntimeSnapshot:
		VerboseLog("Reading snapshot %s", cfg.Snapshot)
		return extractor.NewFileRunner(cfg.Snapshot), nil

	case model.RuntimeDocker:
		dockerCli, err := docker.NewClient()
		if err != nil {
			return nil, err
		}
		defer dockerCli.Close()
		if err := dockerCli.Ping(ctx); err != nil {
			return nil, err
		}
		VerboseLog("Running UnityPy in Docker image %s", imageOrDefault(cfg.Docker.Image))
		return docker.NewRunner(cfg.Docker.Image, cfg.Docker.Setup, cfg.Docker.KeepContainers), nil

	default:
		VerboseLog("Running UnityPy with %s", cfg.Python)
		return extractor.NewPythonRunner(cfg.Python), nil
	}
}

func imageOrDefault(image string) string {
	if image == "" {
		return docker.DefaultImage
	}
	return image
}

// openCache returns the configured cache directory as a Cache.
func openCache(cfg *config.Config) (*cache.Cache, error) {
	dir := cfg.Cache.Dir
	if dir == "" {
		dir = cache.DefaultDir()
	}
	return cache.New(dir)
}

// newLoader wires the runner and, unless disabled, the cache into a
// bundle loader. Snapshot files are never cached.
func newLoader(ctx context.Context, cfg *config.Config) (*extractor.Loader, error) {
	runner, err := newRunner(ctx, cfg)
	if err != nil {
		return nil, err
	}

	opts := []extractor.LoaderOption{extractor.WithLogf(VerboseLog)}
	if !cfg.Cache.Disabled && cfg.Runtime != model.RuntimeSnapshot {
		c, err := openCache(cfg)
		if err != nil {
			// A broken cache only costs speed.
			VerboseLog("Cache disabled: %v", err)
		} else {
			VerboseLog("Using cache %s", c.Dir())
			opts = append(opts, extractor.WithCache(c))
		}
	}
	return extractor.NewLoader(runner, opts...), nil
}

// openBundle loads the bundle at path through the configured runtime.
// With a snapshot the bundle file is not read at all, so the snapshot can
// be inspected on a machine without the game files.
func openBundle(ctx context.Context, cfg *config.Config, path string) (*bundle.Environment, error) {
	loader, err := newLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Runtime == model.RuntimeSnapshot {
		return loader.Load(ctx, nil)
	}
	VerboseLog("Loading bundle %s", path)
	return bundle.OpenFile(ctx, loader, path)
}

// stringFlag returns the flag value if it was set on the command line,
// otherwise fallback (usually a config value).
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// intFlag is the int counterpart of stringFlag.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetInt(name)
		return v
	}
	return fallback
}
