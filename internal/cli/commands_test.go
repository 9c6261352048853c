package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/assetpeek/internal/digest"
	"github.com/shinji-kodama/assetpeek/internal/model"
)

// fixtureSnapshot mirrors what the UnityPy helper emits for a small bundle.
const fixtureSnapshot = `{
  // three objects, in container order
  "version": 1,
  "entries": [
    {
      "path": "assets/ui/HomeBoardList.txt",
      "type": "TextAsset",
      "fields": {
        "m_Name": {"kind": "string", "value": "HomeBoardList"},
        "text": {"kind": "string", "value": "héllo"},
        "script": {"kind": "bytes", "value": "aGk="}
      }
    },
    {
      "path": "assets/data/LevelList_1.bytes",
      "type": "TextAsset",
      "fields": {"m_Script": {"kind": "bytes", "value": "AAE="}}
    },
    {
      "path": "assets/tex/Board.png",
      "type": "Texture2D",
      "fields": {"m_Width": {"kind": "int", "value": "256"}},
    },
  ]
}`

// writeFixture writes the fixture snapshot into a temp dir and returns
// its path.
func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureSnapshot), 0o644))
	return path
}

// runCommand executes the root command with args and returns stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func requireExitCode(t *testing.T, err error, want model.ExitCode) {
	t.Helper()
	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr), "expected CLIError, got %T: %v", err, err)
	assert.Equal(t, want, cliErr.Code)
}

func TestDigestCommand(t *testing.T) {
	out, err := runCommand(t, "digest")
	require.NoError(t, err)

	// The decoded text contains a raw newline, so compare whole outputs
	// rather than counting lines.
	var want bytes.Buffer
	require.NoError(t, digest.Print(&want, digest.DefaultDigest))
	assert.Equal(t, want.String(), out)
	assert.True(t, strings.HasPrefix(out, `Decoded (raw): b'\x16k&1l&`), out)
	assert.Contains(t, out, "\nDecoded (utf-8): ")
}

func TestDigestCommand_Custom(t *testing.T) {
	out, err := runCommand(t, "digest", "aGVs bG8=")
	require.NoError(t, err)
	assert.Equal(t, "Decoded (raw): b'hello'\nDecoded (utf-8): hello\n", out)
}

func TestDigestCommand_Malformed(t *testing.T) {
	out, err := runCommand(t, "digest", "abc")
	require.NoError(t, err, "a malformed digest is reported, not failed")
	assert.True(t, strings.HasPrefix(out, "Failed to decode: "), out)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestListCommand(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "list")
	require.NoError(t, err)

	assert.Equal(t, `assets/ui/HomeBoardList.txt -> TextAsset
assets/data/LevelList_1.bytes -> TextAsset
assets/tex/Board.png -> Texture2D
`, out)
}

func TestListCommand_JSON(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "--json", "list")
	require.NoError(t, err)

	assert.JSONEq(t, `[
	  {"path": "assets/ui/HomeBoardList.txt", "type": "TextAsset"},
	  {"path": "assets/data/LevelList_1.bytes", "type": "TextAsset"},
	  {"path": "assets/tex/Board.png", "type": "Texture2D"}
	]`, out)
}

func TestDumpTextCommand(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "dump-text")
	require.NoError(t, err)

	assert.Equal(t, `assets/ui/HomeBoardList.txt
fields: [m_Name, script, text]
text len 5
script len 2
héllo
b'hi'
`, out)
}

func TestDumpTextCommand_Flags(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "dump-text",
		"--match", "HomeBoard", "--text-limit", "3", "--script-limit", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "\nhél\n")
	assert.Contains(t, out, "\nb'h'\n")
	assert.Contains(t, out, "text len 5", "lengths are reported before truncation")
}

func TestDumpBytesCommand(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "dump-bytes")
	require.NoError(t, err)
	assert.Equal(t, "assets/data/LevelList_1.bytes 2\nb'\\x00\\x01'\n", out)
}

// TestDumpBytesCommand_TextScript uses the shape older helpers wrote for
// binary text assets: m_Script as a string holding a lone surrogate next
// to the exact "script" bytes.
func TestDumpBytesCommand_TextScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	doc := `{"version": 1, "entries": [{
	  "path": "assets/LevelList_1.bytes",
	  "type": "TextAsset",
	  "fields": {
	    "m_Script": {"kind": "string", "value": "\u0001\udcff\u0002"},
	    "script": {"kind": "bytes", "value": "Af8C"}
	  }
	}]}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	out, err := runCommand(t, "--snapshot", path, "dump-bytes")
	require.NoError(t, err)
	assert.Equal(t, "assets/LevelList_1.bytes 3\nb'\\x01\\xff\\x02'\n", out)
}

func TestDumpBytesCommand_NoMatch(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "dump-bytes", "--suffix", "LevelList_9.bytes")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestInspectCommand(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "inspect")
	require.NoError(t, err)

	assert.Equal(t, `assets/ui/HomeBoardList.txt (TextAsset)
  m_Name: string = "HomeBoardList"
  script: bytes = b'hi'
  text: string = "héllo"
`, out)
}

func TestInspectCommand_Suffix(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "inspect", "--suffix", "Board.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/tex/Board.png (Texture2D)\n  m_Width: int = 256\n", out)
}

func TestStringsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global-metadata.dat")
	data := "foo\x00PieceGroupB\x00bar\x00PieceGroupA\x00PieceGroupB\x00"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	out, err := runCommand(t, "strings", "--metadata", path)
	require.NoError(t, err)
	assert.Equal(t, "PieceGroupA\nPieceGroupB\n", out)

	out, err = runCommand(t, "strings", "--metadata", path, "--filter", "", "--limit", "2")
	require.NoError(t, err)
	assert.Equal(t, "PieceGroupA\nPieceGroupB\n", out, "sorted, deduplicated, then limited")
}

func TestStringsCommand_MissingFile(t *testing.T) {
	_, err := runCommand(t, "strings", "--metadata", filepath.Join(t.TempDir(), "missing.dat"))
	requireExitCode(t, err, model.ExitInputNotFound)
}

func TestBundleCommand_MissingSnapshot(t *testing.T) {
	_, err := runCommand(t, "--snapshot", filepath.Join(t.TempDir(), "missing.json"), "list")
	requireExitCode(t, err, model.ExitInputNotFound)
}

func TestBundleCommand_InvalidRuntime(t *testing.T) {
	_, err := runCommand(t, "--runtime", "wasm", "list")
	requireExitCode(t, err, model.ExitInvalidConfig)
}

func TestBundleCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFixture(t)
	cfgPath := filepath.Join(dir, "assetpeek.yaml")
	cfg := "runtime: snapshot\nsnapshot: " + fixture + "\nfilters:\n  bytes: Board.png\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	out, err := runCommand(t, "--config", cfgPath, "inspect", "--suffix", "LevelList_1.bytes")
	require.NoError(t, err)
	assert.Equal(t, "assets/data/LevelList_1.bytes (TextAsset)\n  m_Script: bytes = b'\\x00\\x01'\n", out)

	out, err = runCommand(t, "--config", cfgPath, "dump-bytes")
	require.NoError(t, err)
	assert.Equal(t, "assets/tex/Board.png 0\nb''\n", out, "config filter is used when no flag is given")
}

func TestExportCommand_RoundTrip(t *testing.T) {
	fixture := writeFixture(t)
	want, err := runCommand(t, "--snapshot", fixture, "list")
	require.NoError(t, err)

	for _, name := range []string{"level.yaml", "level.json.zst"} {
		t.Run(name, func(t *testing.T) {
			exported := filepath.Join(t.TempDir(), name)
			_, err := runCommand(t, "--snapshot", fixture, "export", "-o", exported)
			require.NoError(t, err)

			got, err := runCommand(t, "--snapshot", exported, "list")
			require.NoError(t, err)
			assert.Equal(t, want, got)

			dump, err := runCommand(t, "--snapshot", exported, "dump-bytes")
			require.NoError(t, err)
			assert.Equal(t, "assets/data/LevelList_1.bytes 2\nb'\\x00\\x01'\n", dump)
		})
	}
}

func TestExportCommand_Stdout(t *testing.T) {
	out, err := runCommand(t, "--snapshot", writeFixture(t), "export")
	require.NoError(t, err)

	assert.Contains(t, out, `"source": "fixture.json"`)
	assert.Contains(t, out, `"path": "assets/tex/Board.png"`)
}

func TestExportCommand_BadFormat(t *testing.T) {
	_, err := runCommand(t, "--snapshot", writeFixture(t), "export", "--format", "toml")
	requireExitCode(t, err, model.ExitGeneralError)
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		flag, output string
		want         model.SnapshotFormat
	}{
		{"", "", model.FormatJSON},
		{"", "level.json", model.FormatJSON},
		{"", "level.yaml", model.FormatYAML},
		{"", "level.YML.zst", model.FormatYAML},
		{"json", "level.yaml", model.FormatJSON},
		{"yml", "", model.FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.flag+"/"+tt.output, func(t *testing.T) {
			got, err := exportFormat(tt.flag, tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCacheCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cfgPath := filepath.Join(t.TempDir(), "assetpeek.jsonc")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"cache": {"dir": "`+filepath.ToSlash(dir)+`"}}`), 0o644))

	out, err := runCommand(t, "--config", cfgPath, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.ToSlash(dir), filepath.ToSlash(strings.TrimSpace(out)))

	stale := filepath.Join(dir, "sha256", "ab", "stale.zst")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o700))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o600))

	out, err = runCommand(t, "--config", cfgPath, "cache", "clear")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Cleared "), out)
	assert.NoFileExists(t, stale)
	assert.DirExists(t, dir)
}

func TestPrintPruneResult(t *testing.T) {
	jsonOutput = false
	containers := []model.ExtractorContainer{
		{ContainerID: "0123456789abcdef", Status: "exited", BundleDigest: "sha256:aa"},
	}

	var buf bytes.Buffer
	require.NoError(t, printPruneResult(&buf, containers, true))
	assert.Equal(t, "Would remove 0123456789ab (exited, sha256:aa)\n", buf.String())

	buf.Reset()
	require.NoError(t, printPruneResult(&buf, nil, false))
	assert.Equal(t, "No extractor containers found.\n", buf.String())
}

func TestInspection_Idempotent(t *testing.T) {
	fixture := writeFixture(t)
	for _, cmd := range []string{"list", "dump-text", "dump-bytes", "inspect"} {
		first, err := runCommand(t, "--snapshot", fixture, cmd)
		require.NoError(t, err)
		second, err := runCommand(t, "--snapshot", fixture, cmd)
		require.NoError(t, err)
		assert.Equal(t, first, second, cmd)
	}
}
