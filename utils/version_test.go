package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Wizi44/PNodes/models"
)

func TestFreshnessRatio(t *testing.T) {
	policy := &VersionPolicy{CurrentStable: "0.8.0", MinSupported: "0.7.3"}

	tests := []struct {
		name    string
		version string
		want    float64
	}{
		{"current stable", "0.8.0", 1.0},
		{"newer than stable", "v0.9.1", 1.0},
		{"supported but behind", "0.7.5", 0.6},
		{"below minimum", "0.6.0", 0.2},
		{"unparseable", "garbage", models.DefaultVersionFreshness},
		{"empty", "", models.DefaultVersionFreshness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FreshnessRatio(tt.version, policy))
		})
	}
}
