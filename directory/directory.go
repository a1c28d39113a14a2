// Package directory tracks every username the relay has ever seen, online or not, so
// clients can populate their contact sidebar before anyone connects.
package directory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/talkwire/relay-server/utils"
)

// User is one known-user record. Knowing a user says nothing about presence, the
// registry owns that.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Language string `json:"language,omitempty"`
}

// Directory is an in-memory known-user store keyed by username.
type Directory struct {
	mu    sync.RWMutex
	users map[string]User
}

// New creates a new empty directory.
func New() *Directory {
	return &Directory{users: make(map[string]User)}
}

// Upsert records a username, normalizing the passed in language tag. An existing
// record keeps its ID; its language is only replaced when the new tag parses.
func (d *Directory) Upsert(username, language string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	lang := utils.GetLanguage(language)
	user, ok := d.users[username]
	if !ok {
		user = User{ID: uuid.NewString(), Username: username}
	}
	if lang != "" {
		user.Language = lang
	}
	d.users[username] = user
}

// Get returns the record for username, if any.
func (d *Directory) Get(username string) (User, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[username]
	return user, ok
}

// Usernames returns the sorted list of every known username.
func (d *Directory) Usernames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	usernames := make([]string, 0, len(d.users))
	for username := range d.users {
		usernames = append(usernames, username)
	}
	sort.Strings(usernames)
	return usernames
}

// Users returns every record sorted by username.
func (d *Directory) Users() []User {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]User, 0, len(d.users))
	for _, user := range d.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users
}
