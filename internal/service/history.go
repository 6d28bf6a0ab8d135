package service

import (
	"sync"
	"time"

	"github.com/fourier-ai/lmdrag/internal/domain"
)

// HistoryWindow is the number of recent exchanges returned per session.
// Storage is unbounded; only the view is windowed.
const HistoryWindow = 5

// HistoryStore keeps per-session question/answer exchanges in memory.
// Safe for concurrent use.
type HistoryStore struct {
	mu       sync.Mutex
	sessions map[string][]domain.Exchange
}

// NewHistoryStore creates a new HistoryStore instance
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		sessions: make(map[string][]domain.Exchange),
	}
}

// Append records an exchange for the given session.
func (s *HistoryStore) Append(sessionID, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], domain.Exchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
}

// Recent returns up to HistoryWindow exchanges for the session, most
// recent first.
func (s *HistoryStore) Recent(sessionID string) []domain.Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sessions[sessionID]
	n := len(all)
	if n > HistoryWindow {
		all = all[n-HistoryWindow:]
	}

	out := make([]domain.Exchange, len(all))
	for i, ex := range all {
		out[len(all)-1-i] = ex
	}
	return out
}

// Len reports how many exchanges a session has accumulated in total.
func (s *HistoryStore) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionID])
}
