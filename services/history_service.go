package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Wizi44/PNodes/models"
)

const recentSummaryLimit = 12

// HistoryService periodically archives the engine's derived state.
// Recent summaries stay in memory for fast access; MongoDB (when
// enabled) carries the long range.
type HistoryService struct {
	engine   *Engine
	mongo    *MongoDBService
	interval time.Duration
	stopChan chan struct{}

	mutex           sync.RWMutex
	recentSummaries []models.NetworkSummary
}

func NewHistoryService(engine *Engine, mongo *MongoDBService, interval time.Duration) *HistoryService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &HistoryService{
		engine:          engine,
		mongo:           mongo,
		interval:        interval,
		stopChan:        make(chan struct{}),
		recentSummaries: make([]models.NetworkSummary, 0, recentSummaryLimit),
	}
}

func (hs *HistoryService) Start() {
	log.Println("Starting history service...")

	ticker := time.NewTicker(hs.interval)

	go func() {
		hs.collect()

		for {
			select {
			case <-ticker.C:
				hs.collect()
			case <-hs.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (hs *HistoryService) Stop() {
	close(hs.stopChan)
}

func (hs *HistoryService) collect() {
	summary := hs.engine.Summary()
	if summary.TotalNodes == 0 && summary.Timestamp.IsZero() {
		return
	}

	hs.mutex.Lock()
	hs.recentSummaries = append(hs.recentSummaries, summary)
	if len(hs.recentSummaries) > recentSummaryLimit {
		hs.recentSummaries = hs.recentSummaries[len(hs.recentSummaries)-recentSummaryLimit:]
	}
	hs.mutex.Unlock()

	if !hs.mongo.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := hs.mongo.InsertNetworkSummary(ctx, &summary); err != nil {
		log.Printf("Error archiving network summary: %v", err)
	}

	health := hs.engine.Health()
	reputation := hs.engine.Reputation()
	for _, node := range hs.engine.Roster() {
		entry := models.NodeHistoryEntry{
			Timestamp:       summary.Timestamp,
			NodeID:          node.ID,
			Status:          node.Status,
			HealthScore:     health[node.ID].Score,
			ReputationScore: reputation[node.ID].Score,
			StorageUsed:     node.StorageUsed,
		}
		if err := hs.mongo.InsertNodeHistory(ctx, &entry); err != nil {
			log.Printf("Error archiving history for %s: %v", node.ID, err)
		}
	}
}

// GetNetworkHistory returns archived summaries covering the last `hours`
// hours. MongoDB when available, in-memory recent window otherwise.
func (hs *HistoryService) GetNetworkHistory(hours int) []models.NetworkSummary {
	if hours <= 0 {
		hours = 24
	}

	if hs.mongo.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		start := time.Now().Add(-time.Duration(hours) * time.Hour)
		summaries, err := hs.mongo.GetNetworkSummariesRange(ctx, start, time.Now())
		if err == nil {
			return summaries
		}
		log.Printf("Error fetching network history from MongoDB: %v", err)
	}

	hs.mutex.RLock()
	defer hs.mutex.RUnlock()

	out := make([]models.NetworkSummary, len(hs.recentSummaries))
	copy(out, hs.recentSummaries)
	return out
}

// GetNodeHistory returns archived entries for one node.
func (hs *HistoryService) GetNodeHistory(nodeID string, hours int) []models.NodeHistoryEntry {
	if hours <= 0 {
		hours = 24
	}

	if !hs.mongo.Enabled() {
		return []models.NodeHistoryEntry{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	start := time.Now().Add(-time.Duration(hours) * time.Hour)
	entries, err := hs.mongo.GetNodeHistoryRange(ctx, nodeID, start, time.Now())
	if err != nil {
		log.Printf("Error fetching node history from MongoDB: %v", err)
		return []models.NodeHistoryEntry{}
	}
	return entries
}
