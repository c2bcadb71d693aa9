/*
Package realtime is the presence and notification layer of RESQ.

It keeps an in-memory index of which users are connected and over which live connections,
tracks per-connection room subscriptions, and routes domain events from the REST layer to
the right set of live connections. All state is process-local and starts empty.

This file defines the Conn abstraction and the Registry mapping users to connections.
*/
package realtime

import (
	"slices"
	"sync"
)

// Conn is a live, bidirectional transport handle.
// Send must not block: a connection that cannot accept data returns an error.
type Conn interface {
	ID() string
	Send(data []byte) error
	Close()
}

// Registry is the bidirectional index between authenticated users and their live connections.
// A user may hold any number of connections; a connection belongs to at most one user.
type Registry struct {
	mu sync.RWMutex

	// byUser maps a user id to its connections keyed by connection id.
	byUser map[int64]map[string]Conn

	// byConn maps a connection id back to its user.
	byConn map[string]int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[int64]map[string]Conn),
		byConn: make(map[string]int64),
	}
}

// Register binds conn to userID. Registering the same pair again is a no-op.
// If conn is currently bound to a different user, that binding is removed first.
// It returns the other user conn was previously bound to, or 0.
func (r *Registry) Register(userID int64, conn Conn) (previous int64) {
	if userID <= 0 || conn == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := conn.ID()
	if prev, ok := r.byConn[id]; ok {
		if prev == userID {
			return 0
		}
		r.unbindLocked(prev, id)
		previous = prev
	}

	conns, ok := r.byUser[userID]
	if !ok {
		conns = make(map[string]Conn)
		r.byUser[userID] = conns
	}
	conns[id] = conn
	r.byConn[id] = userID

	return previous
}

// Deregister removes conn from whichever user it was bound to and returns that user, or 0
// when conn was never registered. The user entry disappears with its last connection.
func (r *Registry) Deregister(conn Conn) int64 {
	if conn == nil {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := conn.ID()
	userID, ok := r.byConn[id]
	if !ok {
		return 0
	}
	r.unbindLocked(userID, id)

	return userID
}

func (r *Registry) unbindLocked(userID int64, connID string) {
	delete(r.byConn, connID)

	conns := r.byUser[userID]
	delete(conns, connID)
	if len(conns) == 0 {
		delete(r.byUser, userID)
	}
}

// ConnectionsFor returns a snapshot of the live connections of userID; empty when offline.
func (r *Registry) ConnectionsFor(userID int64) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := r.byUser[userID]
	out := make([]Conn, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// UserOf returns the user bound to the connection id, or 0.
func (r *Registry) UserOf(connID string) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byConn[connID]
}

// IsOnline reports whether userID has at least one live connection.
func (r *Registry) IsOnline(userID int64) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byUser[userID]
	return ok
}

// All returns a snapshot of every registered connection across all users.
func (r *Registry) All() []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Conn, 0, len(r.byConn))
	for _, conns := range r.byUser {
		for _, c := range conns {
			out = append(out, c)
		}
	}
	return out
}

// OnlineUsers returns the ids of all users with a live connection, ascending.
func (r *Registry) OnlineUsers() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.byUser))
	for id := range r.byUser {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}

// Count returns the number of registered connections and of online users.
func (r *Registry) Count() (connections, users int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.byConn), len(r.byUser)
}

// Clear drops every binding.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byUser = make(map[int64]map[string]Conn)
	r.byConn = make(map[string]int64)
}
