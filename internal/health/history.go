package health

import (
	"sync"
	"time"
)

// snapshotRing is a fixed-capacity ring of score snapshots for one source,
// oldest evicted first. Eviction policy is the invariant trend inference
// depends on: All always returns oldest to newest.
type snapshotRing struct {
	buf   []ScoreData
	head  int
	count int
}

func newSnapshotRing(capacity int) *snapshotRing {
	return &snapshotRing{buf: make([]ScoreData, capacity)}
}

func (r *snapshotRing) push(s ScoreData) {
	tail := (r.head + r.count) % len(r.buf)
	r.buf[tail] = s
	if r.count < len(r.buf) {
		r.count++
	} else {
		r.head = (r.head + 1) % len(r.buf)
	}
}

func (r *snapshotRing) all() []ScoreData {
	out := make([]ScoreData, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	return out
}

func (r *snapshotRing) latest() (ScoreData, bool) {
	if r.count == 0 {
		return ScoreData{}, false
	}
	return r.buf[(r.head+r.count-1)%len(r.buf)], true
}

type historyEntry struct {
	ring    *snapshotRing
	touched time.Time
}

// historyStore keeps bounded per-source snapshot histories. Writes are a
// single locked read-modify-write per key so concurrent recorders never lose
// appends; when the number of tracked sources exceeds maxSources the least
// recently touched source is evicted.
type historyStore struct {
	mu         sync.RWMutex
	entries    map[string]*historyEntry
	depth      int
	maxSources int
	now        func() time.Time
}

func newHistoryStore(depth, maxSources int) *historyStore {
	return &historyStore{
		entries:    make(map[string]*historyEntry),
		depth:      depth,
		maxSources: maxSources,
		now:        time.Now,
	}
}

func (s *historyStore) record(sourceID string, data ScoreData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sourceID]
	if !ok {
		if len(s.entries) >= s.maxSources {
			s.evictOldestLocked()
		}
		entry = &historyEntry{ring: newSnapshotRing(s.depth)}
		s.entries[sourceID] = entry
	}
	entry.ring.push(data)
	entry.touched = s.now()
}

func (s *historyStore) latest(sourceID string) (ScoreData, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sourceID]
	if !ok {
		return ScoreData{}, false
	}
	return entry.ring.latest()
}

func (s *historyStore) snapshots(sourceID string) []ScoreData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[sourceID]
	if !ok {
		return nil
	}
	return entry.ring.all()
}

func (s *historyStore) size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// pruneOlderThan drops every source whose last snapshot is older than the
// cutoff. Returns the number of sources removed.
func (s *historyStore) pruneOlderThan(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, entry := range s.entries {
		if entry.touched.Before(cutoff) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *historyStore) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, entry := range s.entries {
		if oldestID == "" || entry.touched.Before(oldest) {
			oldestID = id
			oldest = entry.touched
		}
	}
	if oldestID != "" {
		delete(s.entries, oldestID)
	}
}
