package realtime

import (
	"sync"

	"github.com/rs/zerolog"

	"resq/internal/pkg/logx"
)

// HubOptions configures connection handling.
type HubOptions struct {
	// Authenticator resolves authenticate requests. Defaults to TrustAuthenticator.
	Authenticator Authenticator

	// StrictRooms restricts the admin room to connections authenticated as administrators.
	StrictRooms bool
}

// Hub drives the connection lifecycle. It owns the registry, the room index and the router
// for one process and tracks every live session so they can be closed on shutdown.
type Hub struct {
	registry *Registry
	rooms    *Rooms
	router   *Router

	auth        Authenticator
	strictRooms bool

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool

	logger zerolog.Logger
}

// NewHub builds a hub with empty state.
func NewHub(opts HubOptions) *Hub {
	if opts.Authenticator == nil {
		opts.Authenticator = TrustAuthenticator{}
	}

	registry := NewRegistry()
	rooms := NewRooms()

	return &Hub{
		registry:    registry,
		rooms:       rooms,
		router:      NewRouter(registry, rooms),
		auth:        opts.Authenticator,
		strictRooms: opts.StrictRooms,
		sessions:    make(map[string]*Session),
		logger:      logx.Component("realtime.hub"),
	}
}

// Registry returns the session registry.
func (h *Hub) Registry() *Registry { return h.registry }

// Rooms returns the room index.
func (h *Hub) Rooms() *Rooms { return h.rooms }

// Router returns the event router. It is the Notifier handed to the REST layer.
func (h *Hub) Router() *Router { return h.router }

// Connect starts a session for a freshly accepted connection and acknowledges it with the
// connection id. After Shutdown the connection is closed and the session is born closed.
func (h *Hub) Connect(conn Conn) *Session {
	s := newSession(h, conn)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.state = StateClosed
		conn.Close()
		h.logger.Warn().Str("conn_id", conn.ID()).Msg("Connection refused, hub is shut down")
		return s
	}
	h.sessions[conn.ID()] = s
	live := len(h.sessions)
	h.mu.Unlock()

	s.logger.Info().Int("live_connections", live).Msg("Connection established")
	s.reply(KindConnectionEstablished, map[string]string{"sid": conn.ID()})

	return s
}

func (h *Hub) forget(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.sessions[s.conn.ID()]; ok && cur == s {
		delete(h.sessions, s.conn.ID())
	}
}

// HubStats is a presence snapshot for operators.
type HubStats struct {
	Connections              int           `json:"connections"`
	AuthenticatedConnections int           `json:"authenticated_connections"`
	OnlineUsers              int           `json:"online_users"`
	Rooms                    int           `json:"rooms"`
	Dispatch                 DispatchStats `json:"dispatch"`
}

// Stats returns live connection, presence, room and dispatch counters.
func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	live := len(h.sessions)
	h.mu.Unlock()

	conns, users := h.registry.Count()

	return HubStats{
		Connections:              live,
		AuthenticatedConnections: conns,
		OnlineUsers:              users,
		Rooms:                    h.rooms.Count(),
		Dispatch:                 h.router.Stats(),
	}
}

// Shutdown closes every live connection and clears the registry and rooms.
// Connections arriving afterwards are refused.
func (h *Hub) Shutdown() {
	h.logger.Info().Msg("Shutting down realtime hub...")

	h.mu.Lock()
	h.closed = true
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.conn.Close()
		s.Close()
	}

	h.registry.Clear()
	h.rooms.Clear()

	h.logger.Info().Int("closed_connections", len(sessions)).Msg("Realtime hub shutdown complete.")
}
