package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/warcut/internal/domain/report"
)

// MemoryStore is an in-memory Store. Rankings are computed once per Put and
// read under a shared lock.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot Snapshot
	ranked   []Entry
	byActor  map[string]int // index into ranked
	now      func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byActor: make(map[string]int),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, runID string, r *report.Report) error {
	if r == nil {
		return fmt.Errorf("%w: nil report", ErrNoReport)
	}

	ranked := make([]Entry, 0, len(r.Summary.Actors))
	for _, row := range r.Summary.Actors {
		ranked = append(ranked, Entry{
			ActorID: row.ActorID,
			Hits:    row.Hits,
			Points:  row.Points.Total,
			Cut:     row.Cut,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].ActorID < ranked[j].ActorID
	})

	byActor := make(map[string]int, len(ranked))
	for i := range ranked {
		ranked[i].Rank = i + 1
		byActor[ranked[i].ActorID] = i
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = Snapshot{RunID: runID, StoredAt: s.now().UTC(), Report: r}
	s.ranked = ranked
	s.byActor = byActor
	return nil
}

// Latest implements Store.
func (s *MemoryStore) Latest(_ context.Context) (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Report == nil {
		return Snapshot{}, ErrNoReport
	}
	return s.snapshot, nil
}

// Rank implements Store.
func (s *MemoryStore) Rank(_ context.Context, actorID string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Report == nil {
		return Entry{}, ErrNoReport
	}
	i, ok := s.byActor[actorID]
	if !ok {
		return Entry{}, fmt.Errorf("%w: actor %q", ErrNotFound, actorID)
	}
	return s.ranked[i], nil
}

// TopN implements Store.
func (s *MemoryStore) TopN(_ context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, n)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot.Report == nil {
		return nil, ErrNoReport
	}
	if n > len(s.ranked) {
		n = len(s.ranked)
	}
	out := make([]Entry, n)
	copy(out, s.ranked[:n])
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ranked)
}
