package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.fail || c.closed {
		return errors.New("dead connection")
	}
	c.frames = append(c.frames, frame)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.frames...)
}

// kinds returns the event names received so far.
func (c *fakeConn) kinds(t *testing.T) []EventKind {
	t.Helper()

	var out []EventKind
	for _, f := range c.received() {
		var env Envelope
		require.NoError(t, json.Unmarshal(f, &env))
		out = append(out, env.Event)
	}
	return out
}

// last decodes the most recent frame.
func (c *fakeConn) last(t *testing.T) Envelope {
	t.Helper()

	frames := c.received()
	require.NotEmpty(t, frames, "connection %s received nothing", c.id)

	var env Envelope
	require.NoError(t, json.Unmarshal(frames[len(frames)-1], &env))
	return env
}

func (c *fakeConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

type panickyConn struct{ id string }

func (c panickyConn) ID() string        { return c.id }
func (c panickyConn) Send([]byte) error { panic("transport exploded") }
func (c panickyConn) Close()            {}
