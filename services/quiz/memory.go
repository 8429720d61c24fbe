package quizsvc

import (
	"context"
	"sync"
	"time"

	"github.com/Sajalaxena/edu-Darshi-sub000/core/question"
)

type memEntry struct {
	quiz      *question.DailyQuiz
	expiresAt time.Time
}

// MemoryStore keeps quiz instances in process.
type MemoryStore struct {
	ttl     time.Duration
	nowFunc func() time.Time

	mu      sync.Mutex
	quizzes map[string]memEntry
	locked  map[string]bool
}

var _ question.InstanceStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		nowFunc: time.Now,
		quizzes: make(map[string]memEntry),
		locked:  make(map[string]bool),
	}
}

func (s *MemoryStore) SaveQuiz(_ context.Context, quiz *question.DailyQuiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purge()
	s.quizzes[quiz.ID] = memEntry{quiz: quiz, expiresAt: s.nowFunc().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) GetQuiz(_ context.Context, id string) (*question.DailyQuiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.quizzes[id]
	if !ok || !s.nowFunc().Before(entry.expiresAt) {
		return nil, question.ErrQuizNotFound
	}
	return entry.quiz, nil
}

func (s *MemoryStore) LockQuiz(_ context.Context, id string) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.locked[id] {
		return nil, question.ErrBusy
	}
	s.locked[id] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.locked, id)
			s.mu.Unlock()
		})
	}, nil
}

// purge drops expired instances. Callers hold mu.
func (s *MemoryStore) purge() {
	now := s.nowFunc()
	for id, entry := range s.quizzes {
		if !now.Before(entry.expiresAt) {
			delete(s.quizzes, id)
		}
	}
}
