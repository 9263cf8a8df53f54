package lobby

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vancomm/minesweeper/internal/mines"
)

var ErrSessionNotFound = errors.New("game session not found")

// StoredSession is a game as persisted between moves. State holds the
// encoded [mines.GameSession]; the other fields are kept alongside it for
// queries.
type StoredSession struct {
	ID        int64
	Params    mines.GameParams
	Outcome   mines.Outcome
	State     []byte
	StartedAt *time.Time
	EndedAt   *time.Time
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *StoredSession) (int64, error)
	GetSession(ctx context.Context, id int64) (*StoredSession, error)
	UpdateSession(ctx context.Context, s *StoredSession) error
}

type MemoryStore struct {
	mu       sync.RWMutex
	lastID   int64
	sessions map[int64]StoredSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]StoredSession)}
}

func (m *MemoryStore) CreateSession(_ context.Context, s *StoredSession) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID++
	stored := *s
	stored.ID = m.lastID
	m.sessions[stored.ID] = stored
	return stored.ID, nil
}

func (m *MemoryStore) GetSession(_ context.Context, id int64) (*StoredSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemoryStore) UpdateSession(_ context.Context, s *StoredSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.ID] = *s
	return nil
}
