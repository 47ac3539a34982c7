package webhookRepository

import (
	"sync"
	"time"

	"ProjectBodycheck/internal/api/webhook"
	"ProjectBodycheck/internal/entity"
	"golang.org/x/net/context"
)

// memoryStore keeps sessions in a process-local map. Expiry is enforced
// lazily on Get, mirroring the Redis TTL behavior.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.UserSession
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) Store {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &memoryStore{
		sessions: make(map[string]entity.UserSession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *memoryStore) Get(_ context.Context, userID string) (entity.UserSession, error) {
	m.mu.RLock()
	session, ok := m.sessions[userID]
	m.mu.RUnlock()

	if !ok {
		return entity.UserSession{}, webhook.ErrSessionNotFound
	}

	if session.Expired(m.now(), m.ttl) {
		m.mu.Lock()
		delete(m.sessions, userID)
		m.mu.Unlock()
		return entity.UserSession{}, webhook.ErrSessionNotFound
	}

	return session, nil
}

func (m *memoryStore) Put(_ context.Context, session entity.UserSession) error {
	m.mu.Lock()
	m.sessions[session.UserID] = session
	m.mu.Unlock()
	return nil
}

func (m *memoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	return nil
}
