package services

import (
	"math"
	"time"

	"github.com/Wizi44/PNodes/models"
	"github.com/Wizi44/PNodes/utils"
)

// TimeWindow is the selectable historical range for time-travel queries.
type TimeWindow string

const (
	WindowHour TimeWindow = "1h"
	WindowDay  TimeWindow = "24h"
	WindowWeek TimeWindow = "7d"
)

func (w TimeWindow) Duration() time.Duration {
	switch w {
	case WindowDay:
		return 24 * time.Hour
	case WindowWeek:
		return 7 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// SyntheticSteps is how many interpolated snapshots span a window when no
// real history exists for it.
const SyntheticSteps = 12

// lastSeenJitterFrac bounds the synthetic last-seen perturbation to ±20%
// of the window width.
const lastSeenJitterFrac = 0.2

// TimeTravelResult is one resolved historical (or synthetic) view.
type TimeTravelResult struct {
	Snapshot  models.Snapshot                `json:"snapshot"`
	Health    map[string]models.HealthResult `json:"health"`
	Index     int                            `json:"index"`
	Count     int                            `json:"count"`
	Synthetic bool                           `json:"synthetic"`
}

// TimeTravelResolver serves historical roster views from stored
// snapshots, synthesizing an interpolated history when none exists.
type TimeTravelResolver struct {
	store *SnapshotStore
}

func NewTimeTravelResolver(store *SnapshotStore) *TimeTravelResolver {
	return &TimeTravelResolver{store: store}
}

// Resolve returns the snapshot at index within the requested window, with
// a matching health view. Indexes outside the available range clamp to
// the nearest valid one. When the store holds no snapshots inside the
// window, a deterministic synthetic history is generated from the current
// roster; repeated queries with the same inputs produce identical output.
func (r *TimeTravelResolver) Resolve(window TimeWindow, index int, roster []models.Node, now time.Time) (TimeTravelResult, bool) {
	dur := window.Duration()
	snaps := r.store.InWindow(now.Add(-dur), now)

	if len(snaps) == 0 {
		snaps = Synthesize(roster, dur, now)
	}
	if len(snaps) == 0 {
		return TimeTravelResult{}, false
	}

	if index < 0 {
		index = 0
	}
	if index >= len(snaps) {
		index = len(snaps) - 1
	}

	snap := snaps[index]
	health := make(map[string]models.HealthResult, len(snap.Nodes))
	for i := range snap.Nodes {
		health[snap.Nodes[i].ID] = utils.ScoreHealth(&snap.Nodes[i], snap.Timestamp)
	}

	return TimeTravelResult{
		Snapshot:  snap,
		Health:    health,
		Index:     index,
		Count:     len(snaps),
		Synthetic: snap.Synthetic,
	}, true
}

// Synthesize builds SyntheticSteps evenly spaced snapshots spanning the
// window, ending at now. Each step applies a deterministic jitter derived
// from the node and step indexes: it may downgrade a node's status one
// step along online -> unknown -> offline and perturbs its last-seen
// timestamp. This is a visualization aid, not a historical model.
func Synthesize(roster []models.Node, window time.Duration, now time.Time) []models.Snapshot {
	if len(roster) == 0 {
		return nil
	}

	step := window / SyntheticSteps
	snaps := make([]models.Snapshot, 0, SyntheticSteps)

	for s := 0; s < SyntheticSteps; s++ {
		ts := now.Add(-window + time.Duration(s+1)*step)
		nodes := make([]models.Node, len(roster))
		copy(nodes, roster)

		for i := range nodes {
			if jitter(i, s) < 0.15 {
				nodes[i].Status = downgradeStatus(nodes[i].Status)
			}
			offset := (jitter(i, s+SyntheticSteps) - 0.5) * 2 * lastSeenJitterFrac * float64(window)
			nodes[i].LastSeen = ts.Add(time.Duration(offset))
		}

		snaps = append(snaps, models.Snapshot{
			Timestamp: ts,
			Nodes:     nodes,
			Synthetic: true,
		})
	}

	return snaps
}

// jitter produces a reproducible pseudo-random value in [0,1) from the
// node and step indexes. Not a statistical source; chosen only so that
// identical queries render identically.
func jitter(nodeIdx, stepIdx int) float64 {
	v := math.Sin(float64(nodeIdx)*12.9898+float64(stepIdx)*78.233) * 43758.5453
	return v - math.Floor(v)
}

func downgradeStatus(s models.NodeStatus) models.NodeStatus {
	switch s {
	case models.StatusOnline:
		return models.StatusUnknown
	case models.StatusUnknown:
		return models.StatusOffline
	default:
		return models.StatusOffline
	}
}
