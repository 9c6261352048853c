package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/zstdio"
)

// writeFakeInterpreter creates an executable shell script that stands in
// for the Python interpreter. The script ignores its arguments, so the
// embedded helper is never actually run.
func writeFakeInterpreter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake interpreter is a POSIX shell script")
	}

	path := filepath.Join(t.TempDir(), "fake-python")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestScriptIsEmbedded(t *testing.T) {
	assert.Contains(t, Script, "import UnityPy")
	assert.Contains(t, Script, "env.container.items()")
	assert.Contains(t, Script, `"surrogateescape"`, "binary strings are emitted as bytes")
}

func TestPythonRunner_Success(t *testing.T) {
	// Echo stdin back so the test can verify the bundle was piped through.
	python := writeFakeInterpreter(t, `cat`)

	out, err := NewPythonRunner(python).Run(context.Background(), []byte("UnityFS\x00bytes"))
	require.NoError(t, err)
	assert.Equal(t, []byte("UnityFS\x00bytes"), out)
}

func TestPythonRunner_Failure(t *testing.T) {
	python := writeFakeInterpreter(t, `cat >/dev/null
echo "Traceback (most recent call last):" >&2
echo "ModuleNotFoundError: No module named 'UnityPy'" >&2
exit 1`)

	_, err := NewPythonRunner(python).Run(context.Background(), []byte("x"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitExtractorFailed, cliErr.Code)
	assert.True(t, strings.HasSuffix(cliErr.Message, "ModuleNotFoundError: No module named 'UnityPy'"), cliErr.Message)
}

func TestPythonRunner_MissingInterpreter(t *testing.T) {
	_, err := NewPythonRunner("assetpeek-no-such-python").Run(context.Background(), nil)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitExtractorFailed, cliErr.Code)
	assert.Contains(t, cliErr.Message, "not found")
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "extractor python3 failed", FailureMessage("python3", "  \n"))
	assert.Equal(t, "extractor docker failed: boom", FailureMessage("docker", "warn\nboom\n"))
}

func TestFileRunner(t *testing.T) {
	dir := t.TempDir()
	doc := []byte(`{"version": 1, "entries": []}`)

	plain := filepath.Join(dir, "level.json")
	require.NoError(t, os.WriteFile(plain, doc, 0o644))
	out, err := NewFileRunner(plain).Run(context.Background(), []byte("ignored"))
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	packed, err := zstdio.Compress(doc)
	require.NoError(t, err)
	compressed := filepath.Join(dir, "level.json.zst")
	require.NoError(t, os.WriteFile(compressed, packed, 0o644))
	out, err = NewFileRunner(compressed).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	_, err = NewFileRunner(filepath.Join(dir, "missing.json")).Run(context.Background(), nil)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitInputNotFound, cliErr.Code)
}
