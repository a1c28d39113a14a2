package webchat

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// DuplicatePolicy controls what Register does when a username is claimed while it is
// still bound to another live connection.
type DuplicatePolicy int

const (
	// LastWriterWins silently repoints the entry at the new connection. The previous
	// connection is left orphaned, no longer reachable but not closed.
	LastWriterWins DuplicatePolicy = iota

	// RejectDuplicate refuses the claim and keeps the existing binding.
	RejectDuplicate
)

// ParseDuplicatePolicy parses a policy from its configuration name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch s {
	case "last-writer-wins":
		return LastWriterWins, nil
	case "reject-duplicate":
		return RejectDuplicate, nil
	}
	return LastWriterWins, errors.Errorf("unknown duplicate session policy '%s'", s)
}

// Registry is the live mapping from username to connection. It is the single shared
// mutable structure of the relay and every operation on it is atomic with respect to
// concurrent connection events.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Client
	policy  DuplicatePolicy
}

// NewRegistry creates a new empty registry with the passed in duplicate policy.
func NewRegistry(policy DuplicatePolicy) *Registry {
	return &Registry{
		entries: make(map[string]*Client),
		policy:  policy,
	}
}

// Register binds username to the passed in client, inserting or overwriting per the
// duplicate policy. Rebinding the same client to the same username is always allowed.
func (r *Registry) Register(username string, client *Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[username]; ok && prev != client && r.policy == RejectDuplicate {
		return errors.WithStack(ErrDuplicateSession)
	}
	r.entries[username] = client
	return nil
}

// Lookup returns the client currently bound to username, if any.
func (r *Registry) Lookup(username string) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.entries[username]
	return client, ok
}

// Deregister removes the entry for username if present. Removing an absent username
// is a no-op.
func (r *Registry) Deregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, username)
}

// DeregisterClient removes the entry for username only if it still points at the
// passed in client, returning whether an entry was removed. An evicted connection
// disconnecting late must not tear down the entry of the connection that displaced it.
func (r *Registry) DeregisterClient(username string, client *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.entries[username]; ok && prev == client {
		delete(r.entries, username)
		return true
	}
	return false
}

// Usernames returns a sorted snapshot of the registered usernames, used as the
// presence set for online users broadcasts.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	usernames := make([]string, 0, len(r.entries))
	for username := range r.entries {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}

// Len returns the number of registered usernames.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
