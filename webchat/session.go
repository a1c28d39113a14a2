package webchat

import (
	"sync"

	"github.com/chilts/sid"
)

// SessionState tracks where a connection is in its identity lifecycle.
type SessionState int

const (
	// Anonymous is the initial state, no username bound yet.
	Anonymous SessionState = iota
	// Identified means a username is bound and present in the registry.
	Identified
	// Closed is terminal.
	Closed
)

// Session is the per-connection identity state. It is created when the connection is
// opened, bound by a set username event and closed exactly once when the connection
// goes away, however many close signals the transport fires.
type Session struct {
	ID string

	mu        sync.Mutex
	state     SessionState
	username  string
	closeOnce sync.Once
}

// NewSession creates a new anonymous session with a fresh connection ID.
func NewSession() *Session {
	return &Session{ID: sid.IdBase64()}
}

// Bind binds the passed in username to this session. Rebinding overwrites the previous
// name; the registry entry for the previous name is left to age out on disconnect.
// Binding a closed session is a no-op.
func (s *Session) Bind(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Closed {
		return
	}
	s.username = username
	s.state = Identified
}

// Username returns the bound username, empty while the session is anonymous.
func (s *Session) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Identified {
		return ""
	}
	return s.username
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Close transitions the session to Closed and returns the username that was bound and
// whether this call performed the transition from Identified. Only the first call does
// anything, duplicate close signals from the transport report nothing to clean up.
func (s *Session) Close() (string, bool) {
	var username string
	var identified bool
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		username = s.username
		identified = s.state == Identified
		s.state = Closed
	})
	return username, identified
}
