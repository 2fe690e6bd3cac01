package chat

import (
	"sort"
	"sync"
)

// Registry is the authoritative map of which users are reachable right now.
// It maintains a bijection: at most one connection per user, at most one user
// per connection. A user opening a second tab evicts the first tab's binding;
// single-connection presence is a deliberate policy, not an accident.
type Registry struct {
	mu     sync.Mutex
	byUser map[string]*Client // userID -> conn
	byConn map[string]*Client // connID -> conn
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[string]*Client),
		byConn: make(map[string]*Client),
	}
}

// Register establishes or replaces the live binding for c.UserID. Stale
// entries for the same user (previous tab) or the same connection (repeated
// handshake) are removed first, so the bijection holds. Re-registering the
// exact same (user, conn) pair is a no-op with changed=false: callers key
// their roster broadcast off changed, which is what keeps a heartbeating
// client from flooding everyone with redundant online events.
func (r *Registry) Register(c *Client) (evicted []*Client, changed bool) {
	if c == nil || c.UserID == "" || c.ConnID == "" {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev := r.byUser[c.UserID]; prev != nil && prev.ConnID == c.ConnID {
		return nil, false
	}

	if prev := r.byUser[c.UserID]; prev != nil {
		delete(r.byConn, prev.ConnID)
		delete(r.byUser, prev.UserID)
		evicted = append(evicted, prev)
	}
	if prev := r.byConn[c.ConnID]; prev != nil && prev != c {
		delete(r.byUser, prev.UserID)
		delete(r.byConn, prev.ConnID)
		evicted = append(evicted, prev)
	}

	r.byUser[c.UserID] = c
	r.byConn[c.ConnID] = c
	return evicted, true
}

// Unregister removes the entry bound to connID and returns the freed userID
// so the caller can broadcast the shrunk roster. A connection that was never
// registered, or was already evicted by a newer tab, reports ok=false.
func (r *Registry) Unregister(connID string) (userID string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.byConn[connID]
	if c == nil {
		return "", false
	}
	delete(r.byConn, connID)
	if cur := r.byUser[c.UserID]; cur == c {
		delete(r.byUser, c.UserID)
	}
	return c.UserID, true
}

func (r *Registry) Lookup(userID string) (*Client, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byUser[userID]
	return c, ok
}

// Roster returns the reachable user ids, sorted for stable payloads.
func (r *Registry) Roster() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.byUser))
	for uid := range r.byUser {
		out = append(out, uid)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns the current connections. Broadcasts snapshot under the
// lock and push outside it, so fan-out never blocks registration.
func (r *Registry) Snapshot() []*Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Client, 0, len(r.byConn))
	for _, c := range r.byConn {
		out = append(out, c)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byUser)
}
