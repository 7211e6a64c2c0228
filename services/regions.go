package services

import (
	"fmt"
	"math"

	"github.com/Wizi44/PNodes/models"
)

// RegionKey buckets coordinates into a coarse geographic cell: lat and
// lon each rounded to the nearest 10-degree multiple.
func RegionKey(lat, lon float64) string {
	rlat := int(math.Round(lat/10) * 10)
	rlon := int(math.Round(lon/10) * 10)
	return fmt.Sprintf("%d:%d", rlat, rlon)
}

// AggregateRegions counts total/online/offline nodes per geographic cell
// over the full roster. Pure and stateless.
func AggregateRegions(roster []models.Node) map[string]*models.RegionBucket {
	buckets := make(map[string]*models.RegionBucket)

	for i := range roster {
		node := &roster[i]
		key := RegionKey(node.Lat, node.Lon)

		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.RegionBucket{Key: key}
			buckets[key] = bucket
		}

		bucket.Total++
		switch node.Status {
		case models.StatusOnline:
			bucket.Online++
		case models.StatusOffline:
			bucket.Offline++
		}
	}

	return buckets
}
