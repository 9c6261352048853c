// Package extractor bridges assetpeek to UnityPy, the external library that
// understands the Unity bundle format.
//
// A Runner takes raw bundle bytes and returns a snapshot document (see
// package snapshot). The embedded helper script loads the bytes with UnityPy
// and prints the container mapping as JSON; PythonRunner executes it with a
// local interpreter, the docker package runs it inside a container, and
// FileRunner replays a snapshot exported earlier.
//
// Design decisions:
//   - We shell out to a Python interpreter rather than reimplementing the
//     bundle format (LZ4/LZMA block decompression, type trees) in Go. The
//     format is owned by UnityPy and changes with every engine release.
//   - The bundle is passed on stdin and the snapshot read from stdout, so
//     no temporary files are created.
package extractor

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/zstdio"
)

// Script is the helper program run by the python and docker runtimes.
// It reads a bundle on stdin and writes a snapshot JSON document to stdout.
//
//go:embed extract_unitypy.py
var Script string

// DefaultPython is the interpreter used when none is configured.
const DefaultPython = "python3"

// Runner produces a snapshot document for a bundle.
type Runner interface {
	Run(ctx context.Context, bundle []byte) ([]byte, error)
}

// PythonRunner runs Script with a local Python interpreter that has UnityPy
// installed.
type PythonRunner struct {
	// Binary is the interpreter name or path. Empty means DefaultPython.
	Binary string
}

// NewPythonRunner creates a PythonRunner for the given interpreter.
func NewPythonRunner(binary string) *PythonRunner {
	return &PythonRunner{Binary: binary}
}

// Run executes the helper with bundle on stdin and returns its stdout.
// A missing interpreter or a non-zero exit is returned as a CLIError with
// ExitExtractorFailed; the helper's stderr is included in the message.
func (r *PythonRunner) Run(ctx context.Context, bundle []byte) ([]byte, error) {
	binary := r.Binary
	if binary == "" {
		binary = DefaultPython
	}

	// #nosec G204 -- the helper is embedded, the interpreter comes from config
	cmd := exec.CommandContext(ctx, binary, "-c", Script)
	cmd.Stdin = bytes.NewReader(bundle)

	var stdout bytes.Buffer
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, model.WrapCLIError(
				model.ExitExtractorFailed,
				fmt.Sprintf("python interpreter %q not found (install Python 3 with UnityPy, or use --runtime docker)", binary),
				err,
			)
		}
		return nil, model.WrapCLIError(
			model.ExitExtractorFailed,
			FailureMessage(binary, stderr.String()),
			err,
		)
	}
	return stdout.Bytes(), nil
}

// FailureMessage describes a failed helper run. It keeps the last line of
// the helper's stderr, which for a Python traceback is the exception itself.
func FailureMessage(name, stderr string) string {
	message := fmt.Sprintf("extractor %s failed", name)
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		message = fmt.Sprintf("%s: %s", message, last)
	}
	return message
}

// FileRunner replays a snapshot file written by "assetpeek export". The
// bundle bytes are ignored. Files ending in ".zst" are decompressed.
type FileRunner struct {
	Path string
}

// NewFileRunner creates a FileRunner for path.
func NewFileRunner(path string) *FileRunner {
	return &FileRunner{Path: path}
}

// Run returns the snapshot document stored at r.Path.
func (r *FileRunner) Run(_ context.Context, _ []byte) ([]byte, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInputNotFound,
			fmt.Sprintf("failed to read snapshot %s", r.Path),
			err,
		)
	}
	if zstdio.HasExt(r.Path) {
		data, err = zstdio.Decompress(data)
		if err != nil {
			return nil, model.WrapCLIError(
				model.ExitInvalidSnapshot,
				fmt.Sprintf("invalid snapshot %s", r.Path),
				err,
			)
		}
	}
	return data, nil
}
