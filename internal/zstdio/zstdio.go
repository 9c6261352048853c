// Package zstdio wraps whole-buffer zstd compression for snapshot files and
// cache entries.
package zstdio

import (
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// Ext is the file extension that marks zstd-compressed files.
const Ext = ".zst"

// HasExt reports whether path names a zstd-compressed file.
func HasExt(path string) bool {
	return strings.HasSuffix(path, Ext)
}

// Compress returns data as a single zstd frame.
func Compress(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1), zstd.WithLowerEncoderMem(true))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress decodes all zstd frames in data.
func Decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}
