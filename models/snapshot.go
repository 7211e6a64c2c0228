package models

import "time"

// Snapshot is a timestamped, immutable copy of the full roster. Synthetic
// snapshots are interpolations produced for time-travel views and must
// never be presented as real observations.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Nodes     []Node    `json:"nodes"`
	Synthetic bool      `json:"synthetic"`
}

// NodeByID finds a node in the snapshot's roster.
func (s *Snapshot) NodeByID(id string) (Node, bool) {
	for i := range s.Nodes {
		if s.Nodes[i].ID == id {
			return s.Nodes[i], true
		}
	}
	return Node{}, false
}
