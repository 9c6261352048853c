package bundle

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shinji-kodama/assetpeek/internal/textfmt"
)

// Default prefix sizes used by the dump operations.
const (
	DefaultTextLimit   = 400
	DefaultScriptLimit = 200
	DefaultBytesLimit  = 100
	DefaultFieldLimit  = 200
)

// TextDumpOptions controls how much of each payload DumpText prints.
// A negative limit prints the whole payload.
type TextDumpOptions struct {
	// TextLimit is the number of characters of the text payload to print.
	TextLimit int

	// ScriptLimit is the number of bytes of the script payload to print.
	ScriptLimit int
}

// DefaultTextDumpOptions returns the prefix sizes used when none are set.
func DefaultTextDumpOptions() TextDumpOptions {
	return TextDumpOptions{
		TextLimit:   DefaultTextLimit,
		ScriptLimit: DefaultScriptLimit,
	}
}

// ListObjects resolves every container entry and writes one
// "path -> TypeName" line per entry, in container order.
func ListObjects(w io.Writer, env *Environment) error {
	for _, entry := range env.Container() {
		val, err := resolve(entry)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s -> %s\n", entry.Path, val.TypeName); err != nil {
			return err
		}
	}
	return nil
}

// DumpText prints every entry whose path matches m: the path, its field
// names, the lengths of the text and script payloads and a prefix of each.
// It returns the number of matching entries.
//
// The text length counts characters; the script length counts bytes.
// Objects without a text or script field report an empty payload.
func DumpText(w io.Writer, env *Environment, m PathMatcher, opts TextDumpOptions) (int, error) {
	matches := 0
	for _, entry := range env.Container() {
		if !m.Match(entry.Path) {
			continue
		}
		matches++

		val, err := resolve(entry)
		if err != nil {
			return matches, err
		}
		text := val.Text()
		script := val.Script()

		lines := []string{
			entry.Path,
			"fields: [" + strings.Join(val.FieldNames(), ", ") + "]",
			"text len " + strconv.Itoa(textfmt.RuneLen(text)),
			"script len " + strconv.Itoa(len(script)),
			textfmt.TruncateRunes(text, opts.TextLimit),
			textfmt.BytesLiteral(textfmt.TruncateBytes(script, opts.ScriptLimit)),
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return matches, err
			}
		}
	}
	return matches, nil
}

// DumpBytes prints the first entry whose path matches m: the path with
// the length of its script payload, then the first limit bytes of that
// payload as a byte-string literal. Later matches are ignored.
// It reports whether a match was found.
//
// The payload is Value.Script: the exact "script" bytes when present,
// otherwise m_Script. A text-typed m_Script may have lost non-UTF-8 bytes
// on its way through JSON, so it is only the fallback.
func DumpBytes(w io.Writer, env *Environment, m PathMatcher, limit int) (bool, error) {
	for _, entry := range env.Container() {
		if !m.Match(entry.Path) {
			continue
		}

		val, err := resolve(entry)
		if err != nil {
			return true, err
		}
		script := val.Script()

		if _, err := fmt.Fprintf(w, "%s %d\n", entry.Path, len(script)); err != nil {
			return true, err
		}
		_, err = fmt.Fprintln(w, textfmt.BytesLiteral(textfmt.TruncateBytes(script, limit)))
		return true, err
	}
	return false, nil
}

// DumpFields prints the first entry whose path matches m together with
// every serialized field, sorted by name. String and byte values longer
// than limit are cut and marked with a trailing "...".
// It reports whether a match was found.
func DumpFields(w io.Writer, env *Environment, m PathMatcher, limit int) (bool, error) {
	for _, entry := range env.Container() {
		if !m.Match(entry.Path) {
			continue
		}

		val, err := resolve(entry)
		if err != nil {
			return true, err
		}

		if _, err := fmt.Fprintf(w, "%s (%s)\n", entry.Path, val.TypeName); err != nil {
			return true, err
		}
		for _, name := range val.FieldNames() {
			f := val.Fields[name]
			if _, err := fmt.Fprintf(w, "  %s: %s = %s\n", name, f.Kind, formatField(f, limit)); err != nil {
				return true, err
			}
		}
		return true, nil
	}
	return false, nil
}

func formatField(f Field, limit int) string {
	switch f.Kind {
	case KindBytes:
		out := textfmt.BytesLiteral(textfmt.TruncateBytes(f.Bytes, limit))
		if limit >= 0 && len(f.Bytes) > limit {
			out += "..."
		}
		return out
	case KindString:
		s := textfmt.TruncateRunes(f.Str, limit)
		out := strconv.Quote(s)
		if len(s) < len(f.Str) {
			out += "..."
		}
		return out
	default:
		return f.Str
	}
}

func resolve(entry Entry) (*Value, error) {
	if entry.Object == nil {
		return nil, fmt.Errorf("resolve %s: no object", entry.Path)
	}
	val, err := entry.Object.Read()
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", entry.Path, err)
	}
	return val, nil
}
