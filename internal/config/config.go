// Package config loads assetpeek's optional configuration file.
//
// A config file is never required: Default returns the inputs, filters and
// limits the inspection tools have always used, so every command reproduces
// its historical output with no flags and no file. A file only changes the
// defaults; command-line flags override both.
//
// Both YAML (gopkg.in/yaml.v3) and JSONC are accepted. JSONC goes through
// github.com/tidwall/jsonc to strip comments and trailing commas before
// being parsed with encoding/json.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/assetpeek/internal/model"
)

// Default inputs. The paths are relative to the working directory, which is
// expected to hold an unpacked copy of the game.
const (
	DefaultBundle   = "com.gamincat.jigsolitaire/assets/aa/Android/defaultlocalgroup_assets_all_ca619d4f2e59f2119fbae48daab99ee9.bundle"
	DefaultMetadata = "com.gamincat.jigsolitaire/assets/bin/Data/Managed/Metadata/global-metadata.dat"
)

// FileNames lists the config files Discover looks for, in priority order.
var FileNames = []string{
	"assetpeek.yaml",
	"assetpeek.yml",
	"assetpeek.jsonc",
	"assetpeek.json",
}

// Config is the full tool configuration.
type Config struct {
	// Runtime selects how bundles are handed to UnityPy.
	Runtime model.Runtime `yaml:"runtime" json:"runtime"`

	// Python is the interpreter for the python runtime.
	Python string `yaml:"python" json:"python"`

	// Snapshot is the snapshot file for the snapshot runtime.
	Snapshot string `yaml:"snapshot" json:"snapshot"`

	Docker DockerConfig `yaml:"docker" json:"docker"`
	Cache  CacheConfig  `yaml:"cache" json:"cache"`

	// Bundle and Metadata are the default input files.
	Bundle   string `yaml:"bundle" json:"bundle"`
	Metadata string `yaml:"metadata" json:"metadata"`

	Filters FilterConfig `yaml:"filters" json:"filters"`
	Limits  LimitConfig  `yaml:"limits" json:"limits"`
}

// DockerConfig configures the docker runtime.
type DockerConfig struct {
	Image          string `yaml:"image" json:"image"`
	Setup          string `yaml:"setup" json:"setup"`
	KeepContainers bool   `yaml:"keep_containers" json:"keep_containers"`
}

// CacheConfig configures the extractor cache. An empty Dir means the
// per-user cache directory.
type CacheConfig struct {
	Dir      string `yaml:"dir" json:"dir"`
	Disabled bool   `yaml:"disabled" json:"disabled"`
}

// FilterConfig holds the default path and string filters per command.
type FilterConfig struct {
	// Text is a substring matched by dump-text.
	Text string `yaml:"text" json:"text"`
	// Bytes is a path suffix matched by dump-bytes.
	Bytes string `yaml:"bytes" json:"bytes"`
	// Inspect is a path suffix matched by inspect.
	Inspect string `yaml:"inspect" json:"inspect"`
	// Strings is the substring kept by the metadata string scanner.
	Strings string `yaml:"strings" json:"strings"`
}

// LimitConfig holds the default output limits.
type LimitConfig struct {
	Text    int `yaml:"text" json:"text"`
	Script  int `yaml:"script" json:"script"`
	Bytes   int `yaml:"bytes" json:"bytes"`
	Fields  int `yaml:"fields" json:"fields"`
	Strings int `yaml:"strings" json:"strings"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Runtime:  model.RuntimePython,
		Python:   "python3",
		Bundle:   DefaultBundle,
		Metadata: DefaultMetadata,
		Filters: FilterConfig{
			Text:    "HomeBoardList",
			Bytes:   "LevelList_1.bytes",
			Inspect: "HomeBoardList.txt",
			Strings: "PieceGroup",
		},
		Limits: LimitConfig{
			Text:    400,
			Script:  200,
			Bytes:   100,
			Fields:  200,
			Strings: 200,
		},
	}
}

// Load reads path on top of the defaults. Keys missing from the file keep
// their default values. The format follows the extension; unknown
// extensions are sniffed (a leading '{' means JSONC).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.WrapCLIError(
				model.ExitInputNotFound,
				fmt.Sprintf("config file not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg, err := Parse(data, isJSON(path, data))
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidConfig,
			fmt.Sprintf("invalid config %s", path),
			err,
		)
	}
	return cfg, nil
}

// Parse decodes a config document on top of the defaults and validates it.
func Parse(data []byte, asJSON bool) (*Config, error) {
	cfg := Default()
	if asJSON {
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parse JSONC: %w", err)
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	}

	if cfg.Runtime != "" {
		r, err := model.ParseRuntime(string(cfg.Runtime))
		if err != nil {
			return nil, err
		}
		cfg.Runtime = r
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func isJSON(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return true
	case ".yaml", ".yml":
		return false
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// Discover returns the first config file from FileNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Resolve loads the explicit path if given, else a discovered file in dir,
// else the defaults. It returns the file used, or "" for defaults.
func Resolve(explicit, dir string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, ok := Discover(dir)
		if !ok {
			return Default(), "", nil
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// Validate checks the configuration for values no command can use.
func (c *Config) Validate() error {
	if !c.Runtime.IsValid() {
		return fmt.Errorf("invalid runtime: %q (valid: python, docker, snapshot)", c.Runtime)
	}
	if c.Runtime == model.RuntimeSnapshot && c.Snapshot == "" {
		return errors.New("runtime snapshot requires a snapshot path")
	}

	limits := []struct {
		name  string
		value int
	}{
		{"limits.text", c.Limits.Text},
		{"limits.script", c.Limits.Script},
		{"limits.bytes", c.Limits.Bytes},
		{"limits.fields", c.Limits.Fields},
		{"limits.strings", c.Limits.Strings},
	}
	for _, l := range limits {
		if l.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", l.name, l.value)
		}
	}
	return nil
}
