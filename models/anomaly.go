package models

// AnomalyTag marks one failure pattern detected on a node.
type AnomalyTag string

const (
	AnomalySuddenDrop AnomalyTag = "sudden_drop"
	AnomalyIsolated   AnomalyTag = "isolated"
	AnomalyBlackHole  AnomalyTag = "black_hole"
)

// AnomalySet maps node IDs to their detected anomaly tags. A node may
// carry several tags at once; tags are deduplicated, order is not
// significant.
type AnomalySet map[string][]AnomalyTag

// Add records a tag for a node, suppressing duplicates.
func (a AnomalySet) Add(nodeID string, tag AnomalyTag) {
	for _, existing := range a[nodeID] {
		if existing == tag {
			return
		}
	}
	a[nodeID] = append(a[nodeID], tag)
}

// Has reports whether the node carries the tag.
func (a AnomalySet) Has(nodeID string, tag AnomalyTag) bool {
	for _, existing := range a[nodeID] {
		if existing == tag {
			return true
		}
	}
	return false
}

// PartitionVerdict is the network-wide split/mass-outage suspicion.
// Reason is empty when Suspected is false.
type PartitionVerdict struct {
	Suspected bool   `json:"suspected"`
	Reason    string `json:"reason,omitempty"`
}

// RegionBucket aggregates node counts for one coarse geographic cell
// (lat and lon each rounded to the nearest 10-degree multiple).
type RegionBucket struct {
	Key     string `json:"key"`
	Total   int    `json:"total"`
	Online  int    `json:"online"`
	Offline int    `json:"offline"`
}
