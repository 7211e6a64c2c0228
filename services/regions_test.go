package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wizi44/PNodes/models"
)

func TestRegionKeyRounding(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     string
	}{
		{10, 20, "10:20"},
		{12.4, 18.7, "10:20"},
		{-33.9, 18.4, "-30:20"},
		{0, 0, "0:0"},
		{87.1, -179.2, "90:-180"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RegionKey(tt.lat, tt.lon), "(%v, %v)", tt.lat, tt.lon)
	}
}

func TestAggregateRegions(t *testing.T) {
	roster := []models.Node{
		{ID: "a", Lat: 10, Lon: 20, Status: models.StatusOnline},
		{ID: "b", Lat: 11, Lon: 21, Status: models.StatusOffline},
		{ID: "c", Lat: 12, Lon: 19, Status: models.StatusUnknown},
		{ID: "d", Lat: 50, Lon: 8, Status: models.StatusOnline},
	}

	buckets := AggregateRegions(roster)
	require.Len(t, buckets, 2)

	cell := buckets["10:20"]
	require.NotNil(t, cell)
	assert.Equal(t, 3, cell.Total)
	assert.Equal(t, 1, cell.Online)
	assert.Equal(t, 1, cell.Offline)

	other := buckets["50:10"]
	require.NotNil(t, other)
	assert.Equal(t, 1, other.Total)
}

func TestAggregateRegionsEmptyRoster(t *testing.T) {
	assert.Empty(t, AggregateRegions(nil))
}
