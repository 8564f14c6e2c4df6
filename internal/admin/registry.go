package admin

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry holds logged-in sessions by id. Sessions older than ttl are dropped.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	deps     Deps
	ttl      time.Duration
}

// NewRegistry returns an empty registry creating sessions with deps.
func NewRegistry(deps Deps, ttl time.Duration) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{
		sessions: map[string]*Session{},
		deps:     deps,
		ttl:      ttl,
	}
}

// Login opens a new session and tries password on it. Only a session that
// logged in is kept, so failed attempts leave nothing behind.
func (r *Registry) Login(ctx context.Context, password string) (*Session, error) {
	s := NewSession(uuid.NewString(), r.deps)
	if err := s.Login(ctx, password); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sweep()
	r.sessions[s.ID()] = s
	return s, nil
}

// Get returns the session for id if it is open and not expired.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweep()
	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of sessions held, expired or not.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) expired(s *Session) bool {
	return r.ttl > 0 && r.deps.Now().Sub(s.CreatedAt()) > r.ttl
}

func (r *Registry) sweep() {
	for id, s := range r.sessions {
		if r.expired(s) {
			delete(r.sessions, id)
		}
	}
}
