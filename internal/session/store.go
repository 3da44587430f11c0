package session

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/cart"
	"github.com/google/uuid"
)

// Store owns every live session of the process. Nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

func NewStore(idle time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		now:      time.Now,
	}
}

func (st *Store) New() *Session {
	s := newSession(uuid.NewString(), st.now())
	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Get returns the session and marks it as used.
func (st *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(st.now())
	return s, true
}

// Rotate moves the contents of s to a session with a fresh id and forgets
// the old id. s is left empty.
func (st *Store) Rotate(s *Session) *Session {
	ns := newSession(uuid.NewString(), st.now())
	s.mu.Lock()
	ns.state = s.state
	ns.cart = s.cart
	ns.catalog = s.catalog
	s.state = State{}
	s.cart = cart.New()
	s.catalog = catalogView{}
	s.mu.Unlock()

	st.mu.Lock()
	delete(st.sessions, s.ID)
	st.sessions[ns.ID] = ns
	st.mu.Unlock()
	return ns
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Prune drops sessions idle for longer than the store's idle timeout and
// reports how many were removed.
func (st *Store) Prune() int {
	if st.idle <= 0 {
		return 0
	}
	now := st.now()
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, s := range st.sessions {
		if s.idleSince(now) > st.idle {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor prunes on every tick until ctx is done.
func (st *Store) RunJanitor(ctx context.Context, interval time.Duration, onPrune func(n int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := st.Prune(); n > 0 && onPrune != nil {
				onPrune(n)
			}
		}
	}
}
