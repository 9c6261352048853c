// Package bundle is the boundary between assetpeek and the external asset
// library that understands Unity bundles.
//
// Go code never parses the bundle format itself. A Loader hands the raw
// bundle bytes to whatever backend is configured and gets back an
// Environment: the bundle's container mapping, in insertion order, from
// internal asset path to a lazily resolvable Object. Resolving an Object
// yields a Value that exposes the serialized fields of the runtime object
// (text, script, m_Script, m_Name, ...).
//
// The inspection operations (ListObjects, DumpText, DumpBytes, DumpFields)
// depend only on these types, so backends can be swapped or faked in tests.
package bundle

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shinji-kodama/assetpeek/internal/model"
)

// Loader turns raw bundle bytes into an Environment.
type Loader interface {
	Load(ctx context.Context, data []byte) (*Environment, error)
}

// Object is a serialized object reference inside a bundle. Read resolves it
// to its concrete runtime representation.
type Object interface {
	Read() (*Value, error)
}

// ObjectFunc adapts a plain function to the Object interface.
type ObjectFunc func() (*Value, error)

// Read calls f.
func (f ObjectFunc) Read() (*Value, error) {
	return f()
}

// Entry is one row of a bundle's container mapping.
type Entry struct {
	// Path is the logical asset path, e.g. "assets/data/levellist_1.bytes".
	Path string

	// Object resolves the asset stored under Path.
	Object Object
}

// Environment is a loaded bundle.
type Environment struct {
	entries []Entry
}

// NewEnvironment creates an Environment over entries. The slice order is
// the container order reported by Container.
func NewEnvironment(entries []Entry) *Environment {
	return &Environment{entries: entries}
}

// Container returns the container mapping in insertion order.
func (e *Environment) Container() []Entry {
	return e.entries
}

// Len returns the number of container entries.
func (e *Environment) Len() int {
	return len(e.entries)
}

// OpenFile reads the bundle at path in full and loads it with loader.
// A missing or unreadable file is returned as a CLIError with
// ExitInputNotFound.
func OpenFile(ctx context.Context, loader Loader, path string) (*Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInputNotFound,
			fmt.Sprintf("failed to read bundle %s", path),
			err,
		)
	}
	return loader.Load(ctx, data)
}

// FieldKind is the runtime type of a serialized field.
type FieldKind string

const (
	KindString FieldKind = "string"
	KindBytes  FieldKind = "bytes"
	KindInt    FieldKind = "int"
	KindFloat  FieldKind = "float"
	KindBool   FieldKind = "bool"
)

// Field is one serialized field of a resolved object.
// Str carries the value for every kind except KindBytes, which uses Bytes.
type Field struct {
	Kind  FieldKind
	Str   string
	Bytes []byte
}

// StringField returns a KindString field.
func StringField(s string) Field {
	return Field{Kind: KindString, Str: s}
}

// BytesField returns a KindBytes field.
func BytesField(b []byte) Field {
	return Field{Kind: KindBytes, Bytes: b}
}

// Value is a resolved object.
type Value struct {
	// TypeName is the runtime class name, e.g. "TextAsset" or "Texture2D".
	TypeName string

	// Fields holds the object's primitive fields keyed by name.
	Fields map[string]Field
}

// FieldNames returns the field names in sorted order.
func (v *Value) FieldNames() []string {
	names := make([]string, 0, len(v.Fields))
	for name := range v.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StringValue returns the named field as text. Byte fields are converted
// without validation.
func (v *Value) StringValue(name string) (string, bool) {
	f, ok := v.Fields[name]
	if !ok {
		return "", false
	}
	switch f.Kind {
	case KindBytes:
		return string(f.Bytes), true
	case KindString:
		return f.Str, true
	default:
		return "", false
	}
}

// BytesValue returns the named field as bytes. String fields are converted to
// their UTF-8 encoding.
func (v *Value) BytesValue(name string) ([]byte, bool) {
	f, ok := v.Fields[name]
	if !ok {
		return nil, false
	}
	switch f.Kind {
	case KindBytes:
		return f.Bytes, true
	case KindString:
		return []byte(f.Str), true
	default:
		return nil, false
	}
}

// Text returns the object's textual payload: the "text" field, falling
// back to m_Script for text assets that only carry the raw script.
func (v *Value) Text() string {
	if s, ok := v.StringValue("text"); ok {
		return s
	}
	if f, ok := v.Fields["m_Script"]; ok && f.Kind == KindString {
		return f.Str
	}
	return ""
}

// Script returns the object's binary payload: the "script" field, falling
// back to m_Script.
func (v *Value) Script() []byte {
	if b, ok := v.BytesValue("script"); ok {
		return b
	}
	b, _ := v.BytesValue("m_Script")
	return b
}

// PathMatcher selects container entries by path.
type PathMatcher struct {
	desc  string
	match func(string) bool
}

// Contains matches paths containing sub. An empty sub matches every path.
func Contains(sub string) PathMatcher {
	return PathMatcher{
		desc:  fmt.Sprintf("containing %q", sub),
		match: func(p string) bool { return strings.Contains(p, sub) },
	}
}

// HasSuffix matches paths ending with suffix.
func HasSuffix(suffix string) PathMatcher {
	return PathMatcher{
		desc:  fmt.Sprintf("ending with %q", suffix),
		match: func(p string) bool { return strings.HasSuffix(p, suffix) },
	}
}

// Match reports whether path is selected. The zero PathMatcher matches all.
func (m PathMatcher) Match(path string) bool {
	if m.match == nil {
		return true
	}
	return m.match(path)
}

// String describes the matcher for log output.
func (m PathMatcher) String() string {
	if m.desc == "" {
		return "any path"
	}
	return "path " + m.desc
}
