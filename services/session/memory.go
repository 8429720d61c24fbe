package sessionsvc

import (
	"context"
	"sync"
	"time"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/auth"
)

// MemorySession keeps sessions in process. Sessions do not survive a restart.
type MemorySession struct {
	mu       sync.Mutex
	sessions map[string]time.Time // id -> expiry
	nowFunc  func() time.Time
}

var _ auth.Session = (*MemorySession)(nil)

func NewMemorySession() *MemorySession {
	return &MemorySession{
		sessions: make(map[string]time.Time),
		nowFunc:  time.Now,
	}
}

func (s *MemorySession) Start(_ context.Context, claims *auth.Claims) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[claims.Id] = time.Unix(claims.ExpiresAt, 0)
	return nil
}

func (s *MemorySession) Active(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.sessions[id]
	if !ok {
		return false, nil
	}
	if !s.nowFunc().Before(exp) {
		delete(s.sessions, id)
		return false, nil
	}
	return true, nil
}

func (s *MemorySession) End(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
