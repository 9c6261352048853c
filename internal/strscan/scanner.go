// Package strscan greps decoded strings out of binary metadata files.
//
// The engine's global metadata embeds a string table of NUL-terminated
// identifiers. Scan splits the raw file on NUL bytes, decodes each segment as
// UTF-8 (dropping undecodable bytes), and keeps the distinct, non-empty
// segments that contain a filter substring, sorted lexicographically.
package strscan

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/textfmt"
)

// Defaults used when the caller does not override them.
const (
	DefaultFilter = "PieceGroup"
	DefaultLimit  = 200
)

// Scan returns the sorted, deduplicated set of NUL-separated segments of
// data that contain filter. An empty filter matches every segment.
// Empty segments are never reported, so empty input yields no results.
func Scan(data []byte, filter string) []string {
	seen := make(map[string]struct{})
	var results []string
	for _, seg := range bytes.Split(data, []byte{0}) {
		if len(seg) == 0 {
			continue
		}
		s := textfmt.LossyUTF8(seg)
		if s == "" || !strings.Contains(s, filter) {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		results = append(results, s)
	}
	slices.Sort(results)
	return results
}

// ScanFile reads the whole file at path and scans it with filter.
// A missing or unreadable file is returned as a CLIError with
// ExitInputNotFound.
func ScanFile(path, filter string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInputNotFound,
			fmt.Sprintf("failed to read metadata %s", path),
			err,
		)
	}
	return Scan(data, filter), nil
}

// Print writes the first limit results to w, one per line.
// A negative limit prints every result.
func Print(w io.Writer, results []string, limit int) error {
	if limit >= 0 && len(results) > limit {
		results = results[:limit]
	}
	for _, s := range results {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	return nil
}
