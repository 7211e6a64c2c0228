package services

import (
	"log"
	"sync"
	"time"

	"github.com/Wizi44/PNodes/models"
	"github.com/Wizi44/PNodes/utils"
)

// Engine is the gossip analytics core. Each ingested roster is appended
// to the snapshot history and the derived signals (health, reputation,
// regions, anomalies, partition verdict) are recomputed as one unit, so
// readers always observe a consistent view.
type Engine struct {
	store      *SnapshotStore
	timeTravel *TimeTravelResolver
	versions   *utils.VersionPolicy

	mu         sync.RWMutex
	roster     []models.Node
	health     map[string]models.HealthResult
	reputation map[string]models.ReputationResult
	regions    map[string]*models.RegionBucket
	anomalies  models.AnomalySet
	verdict    models.PartitionVerdict
	updatedAt  time.Time
}

func NewEngine(versions *utils.VersionPolicy) *Engine {
	store := NewSnapshotStore()
	return &Engine{
		store:      store,
		timeTravel: NewTimeTravelResolver(store),
		versions:   versions,
		health:     make(map[string]models.HealthResult),
		reputation: make(map[string]models.ReputationResult),
		regions:    make(map[string]*models.RegionBucket),
		anomalies:  make(models.AnomalySet),
	}
}

// Ingest consumes one fetched roster. It is a plain synchronous function
// of "new roster in, derived state out"; scheduling and cancellation are
// owned by the caller. The upstream roster is never mutated.
func (e *Engine) Ingest(roster []models.Node, ts time.Time) {
	nodes := make([]models.Node, len(roster))
	copy(nodes, roster)

	for i := range nodes {
		if nodes[i].VersionFreshness == nil && nodes[i].Version != "" {
			nodes[i].VersionFreshness = models.Float64Ptr(utils.FreshnessRatio(nodes[i].Version, e.versions))
		}
	}

	e.store.Append(nodes, ts)
	prev, curr := e.store.LastPair()

	health := make(map[string]models.HealthResult, len(nodes))
	reputation := make(map[string]models.ReputationResult, len(nodes))
	for i := range nodes {
		h := utils.ScoreHealth(&nodes[i], ts)
		health[nodes[i].ID] = h
		reputation[nodes[i].ID] = utils.ScoreReputation(&nodes[i], h)
	}

	detection := Detect(prev, curr)
	regions := AggregateRegions(nodes)

	e.mu.Lock()
	e.roster = nodes
	e.health = health
	e.reputation = reputation
	e.regions = regions
	e.anomalies = detection.Anomalies
	e.verdict = detection.Verdict
	e.updatedAt = ts
	e.mu.Unlock()

	if detection.Verdict.Suspected {
		log.Printf("Partition suspected: %s", detection.Verdict.Reason)
	}
}

// Roster returns a copy of the most recently ingested roster.
func (e *Engine) Roster() []models.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Node, len(e.roster))
	copy(out, e.roster)
	return out
}

// Health returns the current per-node health map.
func (e *Engine) Health() map[string]models.HealthResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]models.HealthResult, len(e.health))
	for id, h := range e.health {
		out[id] = h
	}
	return out
}

// Reputation returns the current per-node reputation map.
func (e *Engine) Reputation() map[string]models.ReputationResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]models.ReputationResult, len(e.reputation))
	for id, r := range e.reputation {
		out[id] = r
	}
	return out
}

// Regions returns the current per-cell roster aggregation.
func (e *Engine) Regions() map[string]models.RegionBucket {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(map[string]models.RegionBucket, len(e.regions))
	for key, bucket := range e.regions {
		out[key] = *bucket
	}
	return out
}

// Anomalies returns the current anomaly tags per node.
func (e *Engine) Anomalies() models.AnomalySet {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make(models.AnomalySet, len(e.anomalies))
	for id, tags := range e.anomalies {
		copied := make([]models.AnomalyTag, len(tags))
		copy(copied, tags)
		out[id] = copied
	}
	return out
}

// Verdict returns the current partition verdict.
func (e *Engine) Verdict() models.PartitionVerdict {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.verdict
}

// Explain computes the narrative view for one node on demand.
func (e *Engine) Explain(nodeID string) (models.Explanation, bool) {
	e.mu.RLock()
	var node *models.Node
	for i := range e.roster {
		if e.roster[i].ID == nodeID {
			n := e.roster[i]
			node = &n
			break
		}
	}
	var health *models.HealthResult
	if h, ok := e.health[nodeID]; ok {
		health = &h
	}
	var reputation *models.ReputationResult
	if r, ok := e.reputation[nodeID]; ok {
		reputation = &r
	}
	anomalies := e.anomalies
	roster := e.roster
	e.mu.RUnlock()

	if node == nil {
		return models.Explanation{}, false
	}

	window := e.store.Latest(ExplainWindow)
	return Explain(node, health, reputation, anomalies, window, roster), true
}

// TimeTravel resolves a historical or synthetic roster view.
func (e *Engine) TimeTravel(window TimeWindow, index int) (TimeTravelResult, bool) {
	return e.timeTravel.Resolve(window, index, e.Roster(), time.Now())
}

// Store exposes the snapshot history for read-side collaborators.
func (e *Engine) Store() *SnapshotStore {
	return e.store
}

// Summary condenses the derived state into one archived record.
func (e *Engine) Summary() models.NetworkSummary {
	e.mu.RLock()
	defer e.mu.RUnlock()

	summary := models.NetworkSummary{
		Timestamp:       e.updatedAt,
		TotalNodes:      len(e.roster),
		PartitionAlert:  e.verdict.Suspected,
		PartitionReason: e.verdict.Reason,
		AnomalousNodes:  len(e.anomalies),
	}

	var healthSum float64
	for i := range e.roster {
		node := &e.roster[i]
		switch node.Status {
		case models.StatusOnline:
			summary.OnlineNodes++
		case models.StatusUnknown:
			summary.UnknownNodes++
		case models.StatusOffline:
			summary.OfflineNodes++
		}
		summary.UsedStorage += node.StorageUsed
		healthSum += e.health[node.ID].Score
	}
	if len(e.roster) > 0 {
		summary.AverageHealth = healthSum / float64(len(e.roster))
	}

	return summary
}
