package services

import (
	"sync"
	"time"

	"github.com/Wizi44/PNodes/models"
)

// SnapshotCapacity bounds the in-memory history; oldest entries are
// evicted FIFO once exceeded.
const SnapshotCapacity = 500

// SnapshotStore keeps an append-only history of roster snapshots. One
// writer (the update loop), many concurrent readers; readers always see
// either the pre-append or post-append state and get their own copies.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps []models.Snapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snaps: make([]models.Snapshot, 0, SnapshotCapacity),
	}
}

// Append records a new real snapshot of the roster. The roster is copied
// so later mutations by the caller cannot reach stored history.
func (s *SnapshotStore) Append(roster []models.Node, ts time.Time) {
	nodes := make([]models.Node, len(roster))
	copy(nodes, roster)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps = append(s.snaps, models.Snapshot{Timestamp: ts, Nodes: nodes})
	if len(s.snaps) > SnapshotCapacity {
		s.snaps = s.snaps[len(s.snaps)-SnapshotCapacity:]
	}
}

// Len returns how many snapshots are currently retained.
func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.snaps)
}

// Latest returns up to n snapshots, most recent last.
func (s *SnapshotStore) Latest(n int) []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 || len(s.snaps) == 0 {
		return nil
	}
	if n > len(s.snaps) {
		n = len(s.snaps)
	}

	out := make([]models.Snapshot, n)
	copy(out, s.snaps[len(s.snaps)-n:])
	return out
}

// LastPair returns the two most recent snapshots under a single read
// lock, so detection always runs against a consistent (previous, current)
// pair. prev is nil when fewer than two snapshots exist, curr is nil when
// the store is empty.
func (s *SnapshotStore) LastPair() (prev, curr *models.Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snaps) >= 1 {
		c := s.snaps[len(s.snaps)-1]
		curr = &c
	}
	if len(s.snaps) >= 2 {
		p := s.snaps[len(s.snaps)-2]
		prev = &p
	}
	return prev, curr
}

// InWindow returns stored snapshots whose timestamp falls in [from, to],
// oldest first.
func (s *SnapshotStore) InWindow(from, to time.Time) []models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Snapshot, 0)
	for _, snap := range s.snaps {
		if !snap.Timestamp.Before(from) && !snap.Timestamp.After(to) {
			out = append(out, snap)
		}
	}
	return out
}
