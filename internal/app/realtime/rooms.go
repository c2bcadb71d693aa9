package realtime

import (
	"slices"
	"sync"
)

// AdminRoom is the room administrators join to receive location updates.
const AdminRoom = "admin"

// Rooms tracks which connections subscribed to which named rooms.
// Membership is per connection; rooms exist while they have members.
type Rooms struct {
	mu sync.RWMutex

	// members maps a room name to its connections keyed by connection id.
	members map[string]map[string]Conn

	// joined maps a connection id to the set of rooms it is in.
	joined map[string]map[string]struct{}
}

// NewRooms returns an empty room index.
func NewRooms() *Rooms {
	return &Rooms{
		members: make(map[string]map[string]Conn),
		joined:  make(map[string]map[string]struct{}),
	}
}

// Join adds conn to room. Joining twice is a no-op; empty names are ignored.
func (rs *Rooms) Join(conn Conn, room string) {
	if conn == nil || room == "" {
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	id := conn.ID()

	conns, ok := rs.members[room]
	if !ok {
		conns = make(map[string]Conn)
		rs.members[room] = conns
	}
	conns[id] = conn

	set, ok := rs.joined[id]
	if !ok {
		set = make(map[string]struct{})
		rs.joined[id] = set
	}
	set[room] = struct{}{}
}

// Leave removes conn from room. Leaving a room never joined is a no-op.
func (rs *Rooms) Leave(conn Conn, room string) {
	if conn == nil {
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.leaveLocked(conn.ID(), room)
}

// LeaveAll removes conn from every room it is in.
func (rs *Rooms) LeaveAll(conn Conn) {
	if conn == nil {
		return
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	id := conn.ID()
	for room := range rs.joined[id] {
		rs.leaveLocked(id, room)
	}
}

func (rs *Rooms) leaveLocked(connID, room string) {
	if conns, ok := rs.members[room]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(rs.members, room)
		}
	}

	if set, ok := rs.joined[connID]; ok {
		delete(set, room)
		if len(set) == 0 {
			delete(rs.joined, connID)
		}
	}
}

// MembersOf returns a snapshot of the connections in room.
func (rs *Rooms) MembersOf(room string) []Conn {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	conns := rs.members[room]
	out := make([]Conn, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// RoomsOf returns the names of the rooms the connection id is in, sorted.
func (rs *Rooms) RoomsOf(connID string) []string {
	rs.mu.RLock()
	names := make([]string, 0, len(rs.joined[connID]))
	for room := range rs.joined[connID] {
		names = append(names, room)
	}
	rs.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Count returns the number of non-empty rooms.
func (rs *Rooms) Count() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return len(rs.members)
}

// Clear drops every membership.
func (rs *Rooms) Clear() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.members = make(map[string]map[string]Conn)
	rs.joined = make(map[string]map[string]struct{})
}
