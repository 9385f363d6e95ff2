package events

import (
	"context"
	"sort"
	"sync"

	"github.com/mbd888/payguard/internal/scoring"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
}

// NewMemoryStore creates an in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ctx context.Context, event *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *event
	s.events = append(s.events, &e)
	return nil
}

func (s *MemoryStore) Summarize(ctx context.Context, recentLimit int) (*Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[scoring.Level]int)
	for _, e := range s.events {
		counts[e.RiskLevel]++
	}

	summary := &Summary{Total: len(s.events)}
	for _, level := range []scoring.Level{scoring.LevelLow, scoring.LevelMedium, scoring.LevelHigh} {
		if n := counts[level]; n > 0 {
			summary.ByLevel = append(summary.ByLevel, LevelCount{Level: level, Count: n})
		}
	}

	// Newest first by creation time, up to recentLimit. Concurrent
	// appends can land out of timestamp order, so sort rather than
	// relying on insertion order.
	ordered := append([]*Event(nil), s.events...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.After(ordered[j].CreatedAt)
	})
	if recentLimit >= 0 && recentLimit < len(ordered) {
		ordered = ordered[:recentLimit]
	}
	summary.Recent = make([]*Event, 0, len(ordered))
	for _, e := range ordered {
		c := *e
		summary.Recent = append(summary.Recent, &c)
	}
	return summary, nil
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Event, 0, len(s.events))
	for _, e := range s.events {
		c := *e
		result = append(result, &c)
	}
	return result, nil
}
