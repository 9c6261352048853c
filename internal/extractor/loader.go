package extractor

import (
	"context"

	"github.com/opencontainers/go-digest"

	"github.com/shinji-kodama/assetpeek/internal/bundle"
	"github.com/shinji-kodama/assetpeek/internal/cache"
	"github.com/shinji-kodama/assetpeek/internal/model"
	"github.com/shinji-kodama/assetpeek/internal/snapshot"
)

// Loader implements bundle.Loader on top of a Runner, with an optional
// snapshot cache keyed by the bundle's content digest.
type Loader struct {
	runner Runner
	cache  *cache.Cache
	logf   func(format string, args ...any)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache stores and reuses snapshots in c. Only use it with runners
// whose output depends on the bundle bytes alone.
func WithCache(c *cache.Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithLogf sets the function used for diagnostic messages.
func WithLogf(logf func(format string, args ...any)) LoaderOption {
	return func(l *Loader) {
		l.logf = logf
	}
}

// NewLoader creates a Loader that extracts bundles with runner.
func NewLoader(runner Runner, opts ...LoaderOption) *Loader {
	l := &Loader{
		runner: runner,
		logf:   func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load implements bundle.Loader.
func (l *Loader) Load(ctx context.Context, data []byte) (*bundle.Environment, error) {
	s, err := l.LoadSnapshot(ctx, data)
	if err != nil {
		return nil, err
	}
	return s.Environment(), nil
}

// LoadSnapshot returns the snapshot for data, from the cache when possible.
// A snapshot without a source is stamped with the bundle digest.
func (l *Loader) LoadSnapshot(ctx context.Context, data []byte) (*snapshot.Snapshot, error) {
	dgst := digest.FromBytes(data)
	l.logf("Bundle digest %s (%d bytes)", dgst, len(data))

	if l.cache != nil {
		if cached, ok := l.cache.Get(dgst); ok {
			s, err := snapshot.Parse(cached)
			if err == nil {
				l.logf("Using cached snapshot (%d entries)", len(s.Entries))
				stampSource(s, dgst)
				return s, nil
			}
			l.logf("Ignoring unreadable cached snapshot: %v", err)
		}
	}

	out, err := l.runner.Run(ctx, data)
	if err != nil {
		return nil, err
	}

	s, err := snapshot.Parse(out)
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitInvalidSnapshot,
			"extractor produced an invalid snapshot",
			err,
		)
	}
	stampSource(s, dgst)
	l.logf("Extracted %d container entries", len(s.Entries))

	if l.cache != nil {
		if err := l.cache.Put(dgst, out); err != nil {
			l.logf("Warning: failed to cache snapshot: %v", err)
		}
	}
	return s, nil
}

func stampSource(s *snapshot.Snapshot, dgst digest.Digest) {
	if s.Source == "" {
		s.Source = dgst.String()
	}
}
