package repository

import (
	"context"
	"sync"

	"companion-chat/internal/domain"
)

// SessionStore administra las sesiones por usuario.
type SessionStore interface {
	// GetOrCreate devuelve la sesion del usuario, creandola si no existe.
	GetOrCreate(userID string) *domain.Session
	// WithSession ejecuta fn con el lock del usuario tomado.
	WithSession(ctx context.Context, userID string, fn func(*domain.Session) error) error
	Len() int
}

type sessionEntry struct {
	mu      sync.Mutex
	session *domain.Session
}

// MemorySessionStore guarda sesiones en memoria con un lock por usuario.
// El lock del mapa solo cubre la busqueda/creacion de la entrada.
type MemorySessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{entries: make(map[string]*sessionEntry)}
}

func (s *MemorySessionStore) entry(userID string) *sessionEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = &sessionEntry{session: domain.NewSession(userID)}
		s.entries[userID] = e
	}
	return e
}

func (s *MemorySessionStore) GetOrCreate(userID string) *domain.Session {
	return s.entry(userID).session
}

func (s *MemorySessionStore) WithSession(ctx context.Context, userID string, fn func(*domain.Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
