// Package cache stores extractor output on disk, keyed by the content
// digest of the bundle it was produced from.
//
// Loading a bundle through the external asset library is slow; the printed
// output only depends on the bundle bytes, so the snapshot for a given
// digest never changes. Entries are zstd-compressed, sharded by a hex
// prefix of the digest, and written atomically via a temp file and rename.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/shinji-kodama/assetpeek/internal/zstdio"
)

const (
	defaultShardPrefixLen = 2
	defaultDirPerm        = 0o700
)

// Cache is a disk-backed snapshot cache.
type Cache struct {
	dir            string
	shardPrefixLen int
	dirPerm        os.FileMode
}

// Option configures a Cache.
type Option func(*Cache)

// WithShardPrefixLen sets the number of hex characters used for sharding.
// Use 0 to disable sharding. Defaults to 2.
func WithShardPrefixLen(n int) Option {
	return func(c *Cache) {
		c.shardPrefixLen = n
	}
}

// WithDirPerm sets the permissions used for cache directories.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *Cache) {
		c.dirPerm = mode
	}
}

// New creates a cache rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, errors.New("cache dir is empty")
	}
	c := &Cache{
		dir:            dir,
		shardPrefixLen: defaultShardPrefixLen,
		dirPerm:        defaultDirPerm,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.shardPrefixLen < 0 {
		return nil, errors.New("shard prefix length must be >= 0")
	}
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return c, nil
}

// DefaultDir returns the per-user cache location, falling back to a
// directory under the system temp dir.
func DefaultDir() string {
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, "assetpeek")
	}
	return filepath.Join(os.TempDir(), "assetpeek-cache")
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

// Get returns the content stored for dgst. Missing, unreadable or corrupt
// entries are reported as a miss.
func (c *Cache) Get(dgst digest.Digest) ([]byte, bool) {
	path, err := c.path(dgst)
	if err != nil {
		return nil, false
	}
	packed, err := os.ReadFile(path) //nolint:gosec // path is derived from a validated digest
	if err != nil {
		return nil, false
	}
	data, err := zstdio.Decompress(packed)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores content under dgst. An existing entry is left untouched.
func (c *Cache) Put(dgst digest.Digest, content []byte) error {
	path, err := c.path(dgst)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	packed, err := zstdio.Compress(content)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, c.dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "cache-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(packed); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			_ = os.Remove(tmpPath)
			return nil
		}
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Clear removes every cached entry. The cache root itself is kept.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cache) path(dgst digest.Digest) (string, error) {
	if err := dgst.Validate(); err != nil {
		return "", fmt.Errorf("invalid cache key %q: %w", dgst, err)
	}
	hexHash := dgst.Encoded()
	name := hexHash + zstdio.Ext
	algDir := filepath.Join(c.dir, dgst.Algorithm().String())
	if c.shardPrefixLen <= 0 {
		return filepath.Join(algDir, name), nil
	}
	prefixLen := c.shardPrefixLen
	if prefixLen > len(hexHash) {
		prefixLen = len(hexHash)
	}
	return filepath.Join(algDir, hexHash[:prefixLen], name), nil
}
