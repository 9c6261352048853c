// Package docker runs the UnityPy extractor inside a container for hosts
// that have Docker but no Python toolchain.
//
// This package handles:
//   - Docker client initialization with automatic socket detection
//     (Linux, macOS, Windows) and a daemon health check
//   - Running the embedded extractor helper with "docker run -i", the
//     bundle streamed on stdin and the snapshot read from stdout
//   - Labelling extractor containers so that leftovers can be listed and
//     removed by "assetpeek prune"
//
// The package uses github.com/docker/docker/client for daemon queries, and
// the docker CLI for the run itself because it handles stdin attachment
// and image pulls the same way a user would.
package docker
