package health

import (
	"fmt"
	"testing"
	"time"
)

func TestSnapshotRing_EvictsOldestFirst(t *testing.T) {
	ring := newSnapshotRing(3)

	for i := 1; i <= 5; i++ {
		ring.push(ScoreData{OverallScore: float64(i)})
	}

	all := ring.all()
	if len(all) != 3 {
		t.Fatalf("len = %d, want capacity 3", len(all))
	}
	// Oldest to newest, with 1 and 2 evicted.
	for i, want := range []float64{3, 4, 5} {
		if all[i].OverallScore != want {
			t.Errorf("all[%d] = %f, want %f", i, all[i].OverallScore, want)
		}
	}

	latest, ok := ring.latest()
	if !ok || latest.OverallScore != 5 {
		t.Errorf("latest = %v, want score 5", latest)
	}
}

func TestHistoryStore_EvictsLeastRecentSource(t *testing.T) {
	store := newHistoryStore(4, 3)
	clock := time.Unix(1700000000, 0)
	store.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	for i := 0; i < 3; i++ {
		store.record(fmt.Sprintf("src-%d", i), ScoreData{})
	}
	// src-0 is the least recently touched; adding a fourth source evicts it.
	store.record("src-3", ScoreData{})

	if store.size() != 3 {
		t.Fatalf("size = %d, want bound of 3", store.size())
	}
	if _, ok := store.latest("src-0"); ok {
		t.Error("expected src-0 to be evicted")
	}
	if _, ok := store.latest("src-3"); !ok {
		t.Error("expected src-3 to be present")
	}
}

func TestHistoryStore_PruneOlderThan(t *testing.T) {
	store := newHistoryStore(4, 10)
	base := time.Unix(1700000000, 0)

	store.now = func() time.Time { return base }
	store.record("old", ScoreData{})

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	store.record("new", ScoreData{})

	removed := store.pruneOlderThan(base.Add(time.Hour))
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, ok := store.latest("old"); ok {
		t.Error("stale source should have been pruned")
	}
	if _, ok := store.latest("new"); !ok {
		t.Error("fresh source must survive pruning")
	}
}
