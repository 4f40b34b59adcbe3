// Package menustore persists the courses dropdown state of each visitor between requests.
package menustore

import (
	"context"
	"sync"
	"time"

	"github.com/Diva-jaw/Frontend--sub001/core/menu"
)

type entry struct {
	state   menu.State
	expires time.Time
}

// MemoryStore keeps states in process memory. Entries idle for longer than the TTL are dropped.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

var _ menu.Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, entries: make(map[string]entry), now: time.Now}
}

func (s *MemoryStore) Load(_ context.Context, visitorID string) (menu.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[visitorID]
	if !ok {
		return menu.State{}, nil
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.entries, visitorID)
		return menu.State{}, nil
	}
	return copyState(e.state), nil
}

func (s *MemoryStore) Save(_ context.Context, visitorID string, st menu.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.entries[visitorID] = entry{state: copyState(st), expires: now.Add(s.ttl)}
	s.evict(now)
	return nil
}

func (s *MemoryStore) evict(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// copyState detaches the ExpandedModule pointer from the caller's value.
func copyState(st menu.State) menu.State {
	if st.ExpandedModule != nil {
		i := *st.ExpandedModule
		st.ExpandedModule = &i
	}
	return st
}
