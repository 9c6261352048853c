// Package snapshot defines the serialized form of a loaded bundle.
//
// A snapshot is what the external asset library hands back to assetpeek:
// the container mapping in insertion order, each entry carrying the runtime
// type name and the object's primitive fields. The same document is used as
// an offline input (runtime "snapshot") and as the output of
// "assetpeek export".
//
// Snapshots are read as JSON when the document starts with '{' (comments and
// trailing commas are tolerated via github.com/tidwall/jsonc) and as YAML
// otherwise. Files ending in ".zst" are zstd-compressed.
package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/zstdio"
)

// CurrentVersion is the only snapshot layout this build understands.
const CurrentVersion = 1

// Snapshot is a serialized container mapping.
type Snapshot struct {
	// Version is the document layout version; must be CurrentVersion.
	Version int `json:"version" yaml:"version"`

	// Source identifies the bundle, usually its content digest.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Entries is the container mapping in insertion order.
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Entry is one container row.
type Entry struct {
	Path   string           `json:"path" yaml:"path"`
	Type   string           `json:"type" yaml:"type"`
	Fields map[string]Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Field is a serialized primitive. Value holds the textual form of the
// value; bytes are standard base64.
type Field struct {
	Kind  bundle.FieldKind `json:"kind" yaml:"kind"`
	Value string           `json:"value" yaml:"value"`
}

// Parse decodes a JSON, JSONC or YAML snapshot document and validates it.
func Parse(data []byte) (*Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty snapshot document")
	}

	var s Snapshot
	if trimmed[0] == '{' {
		if err := json.Unmarshal(jsonc.ToJSON(trimmed), &s); err != nil {
			return nil, fmt.Errorf("parse snapshot JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("parse snapshot YAML: %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the version, that every entry has a path and a type,
// and that every field has a known kind.
func (s *Snapshot) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported snapshot version %d (want %d)", s.Version, CurrentVersion)
	}
	for i, e := range s.Entries {
		if e.Path == "" {
			return fmt.Errorf("entry %d: empty path", i)
		}
		if e.Type == "" {
			return fmt.Errorf("entry %d (%s): empty type", i, e.Path)
		}
		for name, f := range e.Fields {
			switch f.Kind {
			case bundle.KindString, bundle.KindBytes, bundle.KindInt, bundle.KindFloat, bundle.KindBool:
			default:
				return fmt.Errorf("entry %d (%s): field %q has unknown kind %q", i, e.Path, name, f.Kind)
			}
		}
	}
	return nil
}

// Marshal encodes s in the given format.
func Marshal(s *Snapshot, format model.SnapshotFormat) ([]byte, error) {
	switch format {
	case model.FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case model.FormatYAML:
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q", format)
	}
}

// ReadFile reads and parses the snapshot at path, decompressing it first
// when the name ends in ".zst".
func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInputNotFound,
			fmt.Sprintf("failed to read snapshot %s", path),
			err,
		)
	}
	if zstdio.HasExt(path) {
		data, err = zstdio.Decompress(data)
		if err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidSnapshot, fmt.Sprintf("invalid snapshot %s", path), err)
		}
	}

	s, err := Parse(data)
	if err != nil {
		return nil, model.WrapCLIError(model.ExitInvalidSnapshot, fmt.Sprintf("invalid snapshot %s", path), err)
	}
	return s, nil
}

// WriteFile encodes s in format and writes it to path, compressing it
// when the name ends in ".zst".
func WriteFile(path string, s *Snapshot, format model.SnapshotFormat) error {
	data, err := Marshal(s, format)
	if err != nil {
		return err
	}
	if zstdio.HasExt(path) {
		if data, err = zstdio.Compress(data); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// Environment exposes the snapshot as a bundle environment. Field values
// are decoded when an object is read, not up front.
func (s *Snapshot) Environment() *bundle.Environment {
	entries := make([]bundle.Entry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, bundle.Entry{
			Path:   e.Path,
			Object: lazyObject{entry: e},
		})
	}
	return bundle.NewEnvironment(entries)
}

// lazyObject decodes a snapshot entry on Read.
type lazyObject struct {
	entry Entry
}

func (o lazyObject) Read() (*bundle.Value, error) {
	fields := make(map[string]bundle.Field, len(o.entry.Fields))
	for name, f := range o.entry.Fields {
		if f.Kind != bundle.KindBytes {
			fields[name] = bundle.Field{Kind: f.Kind, Str: f.Value}
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(f.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = bundle.BytesField(raw)
	}
	return &bundle.Value{TypeName: o.entry.Type, Fields: fields}, nil
}

// FromEnvironment serializes every object of env into a snapshot.
// Objects are resolved in container order.
func FromEnvironment(env *bundle.Environment, source string) (*Snapshot, error) {
	s := &Snapshot{
		Version: CurrentVersion,
		Source:  source,
		Entries: make([]Entry, 0, env.Len()),
	}
	for _, e := range env.Container() {
		val, err := e.Object.Read()
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", e.Path, err)
		}
		entry := Entry{Path: e.Path, Type: val.TypeName}
		if len(val.Fields) > 0 {
			entry.Fields = make(map[string]Field, len(val.Fields))
		}
		for name, f := range val.Fields {
			if f.Kind == bundle.KindBytes {
				entry.Fields[name] = Field{Kind: f.Kind, Value: base64.StdEncoding.EncodeToString(f.Bytes)}
				continue
			}
			entry.Fields[name] = Field{Kind: f.Kind, Value: f.Str}
		}
		s.Entries = append(s.Entries, entry)
	}
	return s, nil
}
