// container.go runs the extractor helper in a throwaway container and
// manages the containers it leaves behind.
//
// Every extractor container carries the "assetpeek.managed-by" label, which
// lets prune find them without touching unrelated containers on the host.

package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/opencontainers/go-digest"

	"github.com/shinji-kodama/assetpeek/internal/extractor"
	"github.com/shinji-kodama/assetpeek/internal/model"
)

const (
	// DefaultImage is the base image for extraction. Any image with a
	// Python 3 interpreter on PATH works.
	DefaultImage = "python:3.12-slim"

	// UnityPyVersion is the UnityPy release installed by DefaultSetup.
	// Field shapes differ between releases, so it stays pinned.
	UnityPyVersion = "1.20.0"

	// DefaultSetup installs UnityPy before the helper runs. pip output goes
	// to stderr because stdout carries the snapshot.
	DefaultSetup = "pip install --quiet --disable-pip-version-check --root-user-action=ignore UnityPy==" + UnityPyVersion + " 1>&2"

	// scriptEnv holds the helper source inside the container.
	scriptEnv = "ASSETPEEK_SCRIPT"
)

// Runner runs the embedded extractor helper with "docker run -i". It
// implements extractor.Runner.
type Runner struct {
	// Binary is the docker CLI. Empty means "docker".
	Binary string

	// Image is the container image. Empty means DefaultImage.
	Image string

	// Setup is a shell command run before the helper. Empty means
	// DefaultSetup; use ":" to skip setup for images that ship UnityPy.
	Setup string

	// KeepContainers drops --rm so the container can be inspected after
	// the run. "assetpeek prune" removes them later.
	KeepContainers bool

	// Now is the clock used for the created-at label.
	Now func() time.Time
}

// NewRunner creates a Runner for image with the given setup command.
func NewRunner(image, setup string, keep bool) *Runner {
	return &Runner{Image: image, Setup: setup, KeepContainers: keep}
}

// Run streams bundle into the container and returns the helper's stdout.
func (r *Runner) Run(ctx context.Context, bundle []byte) ([]byte, error) {
	binary := r.binary()
	args := r.runArgs(digest.FromBytes(bundle))

	// #nosec G204 -- arguments are built from config values, not shell input
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = bytes.NewReader(bundle)

	var stdout bytes.Buffer
	var stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, model.WrapCLIError(
				model.ExitDockerNotRunning,
				fmt.Sprintf("docker CLI %q not found", binary),
				err,
			)
		}
		return nil, model.WrapCLIError(
			model.ExitExtractorFailed,
			extractor.FailureMessage("docker", stderr.String()),
			err,
		)
	}
	return stdout.Bytes(), nil
}

func (r *Runner) binary() string {
	if r.Binary == "" {
		return "docker"
	}
	return r.Binary
}

// runArgs builds the docker CLI arguments. The helper source is passed
// through an environment variable so it needs no quoting.
func (r *Runner) runArgs(bundleDigest digest.Digest) []string {
	image := r.Image
	if image == "" {
		image = DefaultImage
	}
	setup := r.Setup
	if setup == "" {
		setup = DefaultSetup
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	args := []string{"run", "-i"}
	if !r.KeepContainers {
		args = append(args, "--rm")
	}
	args = append(args, LabelArgs(BuildLabels(bundleDigest.String(), now()))...)
	args = append(args, "-e", scriptEnv+"="+extractor.Script)
	args = append(args, image, "sh", "-c", setup+` && exec python -c "$`+scriptEnv+`"`)
	return args
}

// ListExtractorContainers returns every container started by assetpeek,
// including stopped ones.
func ListExtractorContainers(ctx context.Context, cli *Client) ([]model.ExtractorContainer, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelManagedBy+"="+ManagedByValue),
	)

	containers, err := cli.Inner().ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, model.WrapCLIError(
			model.ExitDockerNotRunning,
			"failed to list Docker containers",
			err,
		)
	}

	result := make([]model.ExtractorContainer, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}
	return result, nil
}

// containerToInfo maps an API summary to the domain model. Containers
// with damaged labels are still returned so prune can remove them.
func containerToInfo(c container.Summary) model.ExtractorContainer {
	info := model.ExtractorContainer{
		ContainerID: c.ID,
		Status:      string(c.State),
	}
	if len(c.Names) > 0 {
		info.ContainerName = strings.TrimPrefix(c.Names[0], "/")
	}
	if parsed, err := ParseLabels(c.Labels); err == nil {
		info.BundleDigest = parsed.BundleDigest
		info.CreatedAt = parsed.CreatedAt
	} else {
		info.BundleDigest = c.Labels[LabelBundleDigest]
	}
	return info
}

// RemoveContainer removes a container by ID. Running containers are
// killed first when force is true.
func RemoveContainer(ctx context.Context, cli *Client, containerID string, force bool) error {
	err := cli.Inner().ContainerRemove(ctx, containerID, container.RemoveOptions{
		Force: force,
	})
	if err != nil {
		return model.WrapCLIError(
			model.ExitDockerNotRunning,
			fmt.Sprintf("failed to remove container %q", containerID),
			err,
		)
	}
	return nil
}
