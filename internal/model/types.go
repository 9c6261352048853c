package model

import (
	"fmt"
	"strings"
	"time"
)

// Runtime selects how bundle bytes are handed to the external asset
// library (UnityPy) that resolves the container mapping.
type Runtime string

const (
	// RuntimePython runs the extractor helper with a local Python
	// interpreter that has UnityPy installed.
	RuntimePython Runtime = "python"

	// RuntimeDocker runs the extractor helper inside a throwaway
	// container, for hosts without a Python toolchain.
	RuntimeDocker Runtime = "docker"

	// RuntimeSnapshot skips extraction entirely and reads a snapshot
	// previously written by "assetpeek export".
	RuntimeSnapshot Runtime = "snapshot"
)

// String returns the string representation of Runtime.
func (r Runtime) String() string {
	return string(r)
}

// IsValid checks whether the Runtime value is one of the predefined runtimes.
func (r Runtime) IsValid() bool {
	switch r {
	case RuntimePython, RuntimeDocker, RuntimeSnapshot:
		return true
	default:
		return false
	}
}

// ParseRuntime converts a string to a Runtime.
// Matching is case-insensitive; surrounding whitespace is ignored.
func ParseRuntime(s string) (Runtime, error) {
	r := Runtime(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid runtime: %q (valid: python, docker, snapshot)", s)
	}
	return r, nil
}

// SnapshotFormat is the serialization used when a snapshot is exported.
type SnapshotFormat string

const (
	// FormatJSON writes indented JSON. Readers also accept JSONC.
	FormatJSON SnapshotFormat = "json"

	// FormatYAML writes a YAML document.
	FormatYAML SnapshotFormat = "yaml"
)

// String returns the string representation of SnapshotFormat.
func (f SnapshotFormat) String() string {
	return string(f)
}

// ParseSnapshotFormat converts a string ("json", "yaml" or "yml") to a
// SnapshotFormat.
func ParseSnapshotFormat(s string) (SnapshotFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json", "jsonc":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid snapshot format: %q (valid: json, yaml)", s)
	}
}

// ExtractorContainer describes a Docker container started by the docker
// runtime. It is reconstructed from container labels when pruning.
type ExtractorContainer struct {
	// ContainerID is the full Docker container ID.
	ContainerID string `json:"containerId"`

	// ContainerName is the container name without the leading slash.
	ContainerName string `json:"containerName"`

	// Status is the Docker state string (e.g. "running", "exited").
	Status string `json:"status"`

	// BundleDigest is the content digest of the bundle the container
	// was asked to extract.
	BundleDigest string `json:"bundleDigest"`

	// CreatedAt is when assetpeek started the container.
	CreatedAt time.Time `json:"createdAt"`
}

// ExitCode defines the process exit codes used by assetpeek.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitInputNotFound indicates a bundle, metadata or snapshot file
	// could not be read.
	ExitInputNotFound ExitCode = 2

	// ExitExtractorFailed indicates the external asset library failed
	// to load the bundle or could not be started.
	ExitExtractorFailed ExitCode = 3

	// ExitDockerNotRunning indicates the Docker daemon is not accessible.
	ExitDockerNotRunning ExitCode = 4

	// ExitInvalidSnapshot indicates extractor output or a snapshot file
	// could not be parsed.
	ExitInvalidSnapshot ExitCode = 5

	// ExitInvalidConfig indicates the configuration file or flags are invalid.
	ExitInvalidConfig ExitCode = 6
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
