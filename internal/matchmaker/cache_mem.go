package matchmaker

import (
	"context"
	"sync"
	"time"
)

type memCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	byUser map[string]*MatchedSession
}

func NewMemoryCache(ttl time.Duration) SessionCache {
	return &memCache{
		ttl:    ttl,
		now:    time.Now,
		byUser: make(map[string]*MatchedSession),
	}
}

func (m *memCache) Put(ctx context.Context, s *MatchedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byUser[s.Users[0]] = s
	m.byUser[s.Users[1]] = s
	return nil
}

func (m *memCache) Get(ctx context.Context, userID string) (*MatchedSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byUser[userID]
	if !ok {
		return nil, nil
	}
	if m.now().Sub(s.CreatedAt) > m.ttl {
		delete(m.byUser, userID)
		return nil, nil
	}
	return s, nil
}

func (m *memCache) Sweep(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now()
	for uid, s := range m.byUser {
		if t.Sub(s.CreatedAt) > m.ttl {
			delete(m.byUser, uid)
		}
	}
}
