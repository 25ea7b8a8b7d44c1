package host

import "sync"

// SessionStore is the key/value session attached to the current request.
type SessionStore interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	All() map[string]any
}

// MemorySession is an in-memory SessionStore.
type MemorySession struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemorySession returns a session seeded with values.
func NewMemorySession(values map[string]any) *MemorySession {
	session := &MemorySession{values: make(map[string]any, len(values))}
	for key, value := range values {
		session.values[key] = value
	}
	return session
}

func (s *MemorySession) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

func (s *MemorySession) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = value
}

// All returns a copy of the session values.
func (s *MemorySession) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for key, value := range s.values {
		out[key] = value
	}
	return out
}
