// Package session holds the signed-in identity for one running client.
package session

import (
	"sync"

	"plannest/internal/service"
)

// State is the coarse authentication state derived from a Session.
type State int

const (
	// Unknown means the startup identity check (or a login/logout call) hasn't settled.
	Unknown State = iota
	// Anonymous means settled with no user.
	Anonymous
	// Authenticated means settled with a user.
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	}
	return "invalid"
}

// Session is a point-in-time copy of the store.
type Session struct {
	User    *service.User
	Loading bool
}

// State reports which of the three authentication states s is in.
func (s Session) State() State {
	switch {
	case s.Loading:
		return Unknown
	case s.User != nil:
		return Authenticated
	default:
		return Anonymous
	}
}

// Observer is called after every change with the new snapshot.
type Observer func(Session)

type subscription struct {
	id int
	fn Observer
}

// Store is the single mutable session cell. It starts out loading with no user.
// Observers run synchronously before the writing call returns.
type Store struct {
	mu        sync.Mutex
	current   Session
	observers []subscription
	nextID    int
}

// NewStore creates a store in the initial loading state.
func NewStore() *Store {
	return &Store{current: Session{Loading: true}}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SetUser replaces the current user and clears loading.
func (s *Store) SetUser(u service.User) {
	s.update(func(cur *Session) {
		cur.User = &u
		cur.Loading = false
	})
}

// ClearUser removes the current user and clears loading.
func (s *Store) ClearUser() {
	s.update(func(cur *Session) {
		cur.User = nil
		cur.Loading = false
	})
}

// SetLoading marks a call in flight (or settled) without touching the user.
func (s *Store) SetLoading(loading bool) {
	s.update(func(cur *Session) {
		cur.Loading = loading
	})
}

// Subscribe registers fn for change notifications. The returned func removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) update(mutate func(*Session)) {
	s.mu.Lock()
	mutate(&s.current)
	snap := s.snapshotLocked()
	observers := make([]Observer, len(s.observers))
	for i, sub := range s.observers {
		observers[i] = sub.fn
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

func (s *Store) snapshotLocked() Session {
	snap := Session{Loading: s.current.Loading}
	if s.current.User != nil {
		u := *s.current.User
		snap.User = &u
	}
	return snap
}
