package utils

import (
	"strings"

	"github.com/hashicorp/go-version"

	"github.com/Wizi44/PNodes/models"
)

// VersionPolicy holds the reference versions the freshness ratio is
// computed against.
type VersionPolicy struct {
	CurrentStable string
	MinSupported  string
}

var DefaultVersionPolicy = VersionPolicy{
	CurrentStable: "0.8.0",
	MinSupported:  "0.7.3",
}

// FreshnessRatio derives a version-freshness score for a node whose
// roster record did not carry one. Unparseable versions get the neutral
// default rather than a penalty.
func FreshnessRatio(nodeVersion string, policy *VersionPolicy) float64 {
	if policy == nil {
		policy = &DefaultVersionPolicy
	}

	nodeVersion = strings.TrimPrefix(strings.TrimSpace(nodeVersion), "v")
	nodeVer, err := version.NewVersion(nodeVersion)
	if err != nil {
		return models.DefaultVersionFreshness
	}

	current, err := version.NewVersion(policy.CurrentStable)
	if err != nil {
		return models.DefaultVersionFreshness
	}
	minSupported, err := version.NewVersion(policy.MinSupported)
	if err != nil {
		return models.DefaultVersionFreshness
	}

	switch {
	case nodeVer.GreaterThanOrEqual(current):
		return 1.0
	case nodeVer.LessThan(minSupported):
		return 0.2
	default:
		return 0.6
	}
}
