package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Wizi44/PNodes/models"
)

func testRoster(ids ...string) []models.Node {
	nodes := make([]models.Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, models.Node{ID: id, Status: models.StatusOnline})
	}
	return nodes
}

func TestSnapshotStoreEmptyIsValid(t *testing.T) {
	store := NewSnapshotStore()

	assert.Equal(t, 0, store.Len())
	assert.Nil(t, store.Latest(5))

	prev, curr := store.LastPair()
	assert.Nil(t, prev)
	assert.Nil(t, curr)
}

func TestSnapshotStoreLatestOrder(t *testing.T) {
	store := NewSnapshotStore()
	base := time.Now()

	for i := 0; i < 5; i++ {
		store.Append(testRoster(fmt.Sprintf("n%d", i)), base.Add(time.Duration(i)*time.Minute))
	}

	latest := store.Latest(3)
	require.Len(t, latest, 3)

	// Most recent last.
	assert.Equal(t, "n2", latest[0].Nodes[0].ID)
	assert.Equal(t, "n4", latest[2].Nodes[0].ID)
	assert.True(t, latest[0].Timestamp.Before(latest[2].Timestamp))
}

func TestSnapshotStoreCapacityEviction(t *testing.T) {
	store := NewSnapshotStore()
	base := time.Now()

	for i := 0; i < SnapshotCapacity+1; i++ {
		store.Append(testRoster(fmt.Sprintf("n%d", i)), base.Add(time.Duration(i)*time.Second))
	}

	assert.Equal(t, SnapshotCapacity, store.Len())

	// The oldest entry (n0) was evicted.
	all := store.Latest(SnapshotCapacity)
	assert.Equal(t, "n1", all[0].Nodes[0].ID)
	assert.Equal(t, fmt.Sprintf("n%d", SnapshotCapacity), all[len(all)-1].Nodes[0].ID)
}

func TestSnapshotStoreLastPair(t *testing.T) {
	store := NewSnapshotStore()
	base := time.Now()

	store.Append(testRoster("a"), base)
	prev, curr := store.LastPair()
	assert.Nil(t, prev)
	require.NotNil(t, curr)
	assert.Equal(t, "a", curr.Nodes[0].ID)

	store.Append(testRoster("b"), base.Add(time.Minute))
	prev, curr = store.LastPair()
	require.NotNil(t, prev)
	require.NotNil(t, curr)
	assert.Equal(t, "a", prev.Nodes[0].ID)
	assert.Equal(t, "b", curr.Nodes[0].ID)
}

func TestSnapshotStoreAppendCopiesRoster(t *testing.T) {
	store := NewSnapshotStore()
	roster := testRoster("a")

	store.Append(roster, time.Now())
	roster[0].ID = "mutated"

	latest := store.Latest(1)
	require.Len(t, latest, 1)
	assert.Equal(t, "a", latest[0].Nodes[0].ID)
}

func TestSnapshotStoreInWindow(t *testing.T) {
	store := NewSnapshotStore()
	base := time.Now()

	store.Append(testRoster("old"), base.Add(-2*time.Hour))
	store.Append(testRoster("recent"), base.Add(-10*time.Minute))

	inWindow := store.InWindow(base.Add(-time.Hour), base)
	require.Len(t, inWindow, 1)
	assert.Equal(t, "recent", inWindow[0].Nodes[0].ID)
}
