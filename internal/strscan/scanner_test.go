package strscan

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/assetpeek/internal/model"
)

func TestScan(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		filter string
		want   []string
	}{
		{
			name:   "filters by substring",
			data:   []byte("foo\x00PieceGroupA\x00bar\x00PieceGroupB\x00"),
			filter: "PieceGroup",
			want:   []string{"PieceGroupA", "PieceGroupB"},
		},
		{
			name:   "empty filter matches all and dedupes",
			data:   []byte("A\x00BB\x00A\x00"),
			filter: "",
			want:   []string{"A", "BB"},
		},
		{
			name:   "sorts lexicographically",
			data:   []byte("PieceGroupZ\x00PieceGroup\x00PieceGroupB\x00PieceGroupA"),
			filter: "PieceGroup",
			want:   []string{"PieceGroup", "PieceGroupA", "PieceGroupB", "PieceGroupZ"},
		},
		{
			name:   "invalid utf-8 bytes are dropped",
			data:   []byte("Piece\xffGroupX\x00\xfe\xfd\x00"),
			filter: "",
			want:   []string{"PieceGroupX"},
		},
		{
			name:   "segments that decode to nothing are skipped",
			data:   []byte("\xff\x00\x00ok"),
			filter: "",
			want:   []string{"ok"},
		},
		{
			name:   "no match",
			data:   []byte("foo\x00bar\x00"),
			filter: "PieceGroup",
			want:   nil,
		},
		{
			name:   "empty input",
			data:   []byte{},
			filter: "",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Scan(tt.data, tt.filter))
		})
	}
}

func TestScanFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "global-metadata.dat")
	require.NoError(t, os.WriteFile(path, []byte("\xaf\x1b\xb1\xfa\x00PieceGroupB\x00PieceGroupA\x00PieceGroupB\x00"), 0o644))

	got, err := ScanFile(path, DefaultFilter)
	require.NoError(t, err)
	assert.Equal(t, []string{"PieceGroupA", "PieceGroupB"}, got)
}

func TestScanFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, err := ScanFile(path, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestScanFile_Missing(t *testing.T) {
	_, err := ScanFile(filepath.Join(t.TempDir(), "missing.dat"), DefaultFilter)
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitInputNotFound, cliErr.Code)
}

func TestPrint(t *testing.T) {
	results := make([]string, 0, 250)
	for i := 0; i < 250; i++ {
		results = append(results, fmt.Sprintf("PieceGroup%03d", i))
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, results, DefaultLimit))
	lines := bytes.Split(bytes.TrimSuffix(buf.Bytes(), []byte("\n")), []byte("\n"))
	require.Len(t, lines, DefaultLimit)
	assert.Equal(t, "PieceGroup000", string(lines[0]))
	assert.Equal(t, "PieceGroup199", string(lines[len(lines)-1]))

	buf.Reset()
	require.NoError(t, Print(&buf, []string{"A", "BB"}, -1))
	assert.Equal(t, "A\nBB\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, nil, DefaultLimit))
	assert.Empty(t, buf.String())
}

func TestScan_Idempotent(t *testing.T) {
	data := []byte("b\x00a\x00PieceGroupC\x00c\x00a")
	assert.Equal(t, Scan(data, ""), Scan(data, ""))
}
