package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRegisterDeregister(t *testing.T) {
	r := NewRegistry()
	c := newFakeConn("c")

	r.Register(7, c)
	assert.True(t, r.IsOnline(7))
	assert.Equal(t, int64(7), r.UserOf("c"))

	assert.Equal(t, int64(7), r.Deregister(c))
	assert.False(t, r.IsOnline(7))
	assert.Empty(t, r.ConnectionsFor(7))
}

func TestRegistryKeepsUserOnlineWhileConnectionsRemain(t *testing.T) {
	r := NewRegistry()
	c1, c2 := newFakeConn("c1"), newFakeConn("c2")

	r.Register(7, c1)
	r.Register(7, c2)
	r.Deregister(c1)

	assert.True(t, r.IsOnline(7))
	assert.Equal(t, []Conn{c2}, r.ConnectionsFor(7))
}

func TestRegistryIdempotence(t *testing.T) {
	r := NewRegistry()
	c := newFakeConn("c")

	assert.Zero(t, r.Deregister(c), "never registered")

	r.Register(3, c)
	assert.Zero(t, r.Register(3, c), "same user is not a rebind")
	conns, users := r.Count()
	assert.Equal(t, 1, conns)
	assert.Equal(t, 1, users)

	r.Deregister(c)
	assert.Zero(t, r.Deregister(c))
}

func TestRegistryRebindsConnectionToNewUser(t *testing.T) {
	r := NewRegistry()
	c := newFakeConn("c")

	assert.Zero(t, r.Register(3, c))
	assert.Equal(t, int64(3), r.Register(4, c))

	assert.False(t, r.IsOnline(3))
	assert.True(t, r.IsOnline(4))
	assert.Len(t, r.All(), 1)
}

func TestRegistryIgnoresInvalidUser(t *testing.T) {
	r := NewRegistry()

	r.Register(0, newFakeConn("a"))
	r.Register(-1, newFakeConn("b"))
	r.Register(5, nil)

	conns, users := r.Count()
	assert.Zero(t, conns)
	assert.Zero(t, users)
}

func TestRegistryOnlineUsersAndClear(t *testing.T) {
	r := NewRegistry()
	r.Register(9, newFakeConn("a"))
	r.Register(2, newFakeConn("b"))
	r.Register(9, newFakeConn("c"))

	assert.Equal(t, []int64{2, 9}, r.OnlineUsers())
	assert.Len(t, r.All(), 3)

	r.Clear()
	assert.Empty(t, r.OnlineUsers())
	assert.Empty(t, r.All())
}
