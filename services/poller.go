package services

import (
	"context"
	"log"
	"time"
)

// Poller drives the analytics cycle: fetch the roster, ingest it, publish
// the refreshed derived state to the cache. The engine itself stays a
// plain synchronous function; the poller owns scheduling and
// cancellation.
type Poller struct {
	engine   *Engine
	source   RosterSource
	cache    *CacheService
	interval time.Duration
	timeout  time.Duration
	stopChan chan struct{}
}

func NewPoller(engine *Engine, source RosterSource, cache *CacheService, interval, timeout time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Poller{
		engine:   engine,
		source:   source,
		cache:    cache,
		interval: interval,
		timeout:  timeout,
		stopChan: make(chan struct{}),
	}
}

func (p *Poller) Start() {
	log.Printf("Starting roster poller (every %s)", p.interval)

	go func() {
		p.runCycle()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.runCycle()
			case <-p.stopChan:
				return
			}
		}
	}()
}

func (p *Poller) Stop() {
	close(p.stopChan)
}

// runCycle performs one fetch+ingest. A failed fetch leaves the engine
// operating on the last successfully ingested roster.
func (p *Poller) runCycle() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	roster, err := p.source.FetchRoster(ctx)
	if err != nil {
		log.Printf("Roster fetch failed, keeping previous state: %v", err)
		return
	}

	now := time.Now()
	p.engine.Ingest(roster, now)
	summary := p.engine.Summary()

	log.Printf("Ingested %d nodes (online: %d, unknown: %d, offline: %d, avg health: %.2f)",
		summary.TotalNodes, summary.OnlineNodes, summary.UnknownNodes,
		summary.OfflineNodes, summary.AverageHealth)

	if p.cache != nil {
		p.cache.Set("network:summary", summary)
		p.cache.Set("network:nodes", roster)
	}
}
