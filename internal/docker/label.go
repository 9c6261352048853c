package docker

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shinji-kodama/assetpeek/internal/model"
)

// Label keys attached to every extractor container. They let "assetpeek
// prune" find containers left behind by runs with keep_containers enabled,
// and record which bundle each container was started for.
const (
	// LabelPrefix is the common prefix for all assetpeek labels.
	LabelPrefix = "assetpeek."

	// LabelManagedBy identifies containers started by assetpeek.
	// Key: "assetpeek.managed-by", Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelBundleDigest stores the content digest of the bundle being
	// extracted, e.g. "sha256:9f86d0...".
	LabelBundleDigest = LabelPrefix + "bundle-digest"

	// LabelCreatedAt stores the RFC3339 UTC start time of the container.
	LabelCreatedAt = LabelPrefix + "created-at"
)

// ManagedByValue is the constant value for the LabelManagedBy label.
const ManagedByValue = "assetpeek"

// BuildLabels returns the label set for an extractor container.
func BuildLabels(bundleDigest string, createdAt time.Time) map[string]string {
	return map[string]string{
		LabelManagedBy:    ManagedByValue,
		LabelBundleDigest: bundleDigest,
		LabelCreatedAt:    createdAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reads the assetpeek labels back from a container.
// All three labels are required and managed-by must be ManagedByValue.
// Only BundleDigest and CreatedAt are filled in; the container identity
// comes from the Docker API.
func ParseLabels(labels map[string]string) (*model.ExtractorContainer, error) {
	var missing []string
	for _, key := range []string{LabelManagedBy, LabelBundleDigest, LabelCreatedAt} {
		if _, ok := labels[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required Docker labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf(
			"label %s has unexpected value %q (expected %q)",
			LabelManagedBy, labels[LabelManagedBy], ManagedByValue,
		)
	}

	createdAt, err := time.Parse(time.RFC3339, labels[LabelCreatedAt])
	if err != nil {
		return nil, fmt.Errorf("invalid label %s: %w", LabelCreatedAt, err)
	}

	return &model.ExtractorContainer{
		BundleDigest: labels[LabelBundleDigest],
		CreatedAt:    createdAt,
	}, nil
}

// LabelArgs renders labels as "--label key=value" arguments for docker run,
// sorted by key so the command line is stable.
func LabelArgs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, "--label", k+"="+labels[k])
	}
	return args
}
