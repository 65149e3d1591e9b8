// Package session holds the ephemeral pending selections bridging the item
// picker and the quantity form.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/fazendarp/stashbot/pkg/enums"
)

// Selection is what an actor picked, waiting for quantities. At most one
// selection exists per actor; a new pick overwrites the previous one.
type Selection struct {
	Direction       enums.Direction
	OriginChannelID string
	Items           []string
}

type entry struct {
	selection Selection
	storedAt  time.Time
}

// Store is an in-memory per-actor selection store with TTL eviction, so
// abandoned flows do not accumulate forever.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time
}

// NewStore creates a store and starts its eviction janitor, which stops when
// ctx is canceled.
func NewStore(ctx context.Context, ttl time.Duration) *Store {
	s := &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
	go s.evictLoop(ctx)
	return s
}

func (s *Store) evictLoop(ctx context.Context) {
	interval := s.ttl
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-ctx.Done():
			return
		}
	}
}

func (s *Store) evictExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for actorID, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, actorID)
		}
	}
}

func (s *Store) expired(e entry) bool {
	return s.ttl > 0 && s.now().Sub(e.storedAt) > s.ttl
}

// Put stores the actor's selection, replacing any prior one.
func (s *Store) Put(actorID string, selection Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[actorID] = entry{selection: selection, storedAt: s.now()}
}

// Take consumes the actor's pending selection. Stale or absent entries
// report a miss; either way nothing remains afterwards.
func (s *Store) Take(actorID string) (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[actorID]
	if !ok {
		return Selection{}, false
	}
	delete(s.entries, actorID)
	if s.expired(e) {
		return Selection{}, false
	}
	return e.selection, true
}

// Len reports how many selections are pending.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
