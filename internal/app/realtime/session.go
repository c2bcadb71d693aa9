package realtime

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"resq/internal/app/model"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
)

// State is the lifecycle state of a connection.
type State int

const (
	StateConnected State = iota
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// RoomRequest is the payload of join_room and leave_room.
type RoomRequest struct {
	Room string `json:"room"`
}

// SendMessageRequest is the payload of send_message.
type SendMessageRequest struct {
	RecipientID int64           `json:"recipient_id,omitempty"`
	Room        string          `json:"room,omitempty"`
	Message     json.RawMessage `json:"message"`
}

// ErrorPayload is sent with KindError when a request is refused.
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Session is the per-connection state machine: Connected, then Authenticated, then Closed.
// Room operations are valid before and after authentication.
type Session struct {
	hub  *Hub
	conn Conn

	// mu serialises transitions. Registry and room updates happen under it so a concurrent
	// Close always observes a completed Authenticate.
	mu       sync.Mutex
	state    State
	identity Identity

	logger zerolog.Logger
}

func newSession(h *Hub, conn Conn) *Session {
	return &Session{
		hub:    h,
		conn:   conn,
		state:  StateConnected,
		logger: logx.Component("realtime.session").With().Str("conn_id", conn.ID()).Logger(),
	}
}

// ID returns the connection id.
func (s *Session) ID() string { return s.conn.ID() }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// UserID returns the authenticated user, or 0.
func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.UserID
}

// HandleFrame decodes one inbound envelope and applies it. Malformed frames and unknown
// events are logged and ignored.
func (s *Session) HandleFrame(frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		s.logger.Warn().Err(err).Int("frame_bytes", len(frame)).Msg("Client sent invalid JSON")
		return
	}

	switch env.Event {
	case KindAuthenticate:
		var req AuthRequest
		if s.decode(env, &req) {
			s.Authenticate(req)
		}

	case KindJoinRoom:
		var req RoomRequest
		if s.decode(env, &req) {
			s.JoinRoom(req.Room)
		}

	case KindLeaveRoom:
		var req RoomRequest
		if s.decode(env, &req) {
			s.LeaveRoom(req.Room)
		}

	case KindSendMessage:
		var req SendMessageRequest
		if s.decode(env, &req) {
			s.SendMessage(req)
		}

	default:
		s.logger.Warn().Str("event", string(env.Event)).Msg("Client sent unsupported event")
	}
}

func (s *Session) decode(env Envelope, dst any) bool {
	if len(env.Data) == 0 {
		s.logger.Warn().Str("event", string(env.Event)).Msg("Client sent event without data")
		return false
	}
	if err := json.Unmarshal(env.Data, dst); err != nil {
		s.logger.Warn().Err(err).Str("event", string(env.Event)).Msg("Client sent invalid event data")
		return false
	}
	return true
}

// Authenticate binds the connection to the identity resolved from req and acknowledges it.
// A connection that is already authenticated as another user is rebound: the previous
// registry entry is removed before the new one is added, and with strict rooms a connection
// that is no longer an admin leaves the admin room. Requests without identity are
// ignored; rejected credentials get an error reply.
func (s *Session) Authenticate(req AuthRequest) bool {
	identity, err := s.hub.auth.Authenticate(req)
	if err != nil {
		if errors.Is(err, ErrMissingIdentity) {
			s.logger.Debug().Msg("Authenticate without identity ignored")
			return false
		}
		s.logger.Warn().Err(err).Msg("Socket authentication rejected")
		s.replyError(errs.NewError(errs.ErrInvalidToken))
		return false
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return false
	}

	previous := s.hub.registry.Register(identity.UserID, s.conn)
	s.state = StateAuthenticated
	s.identity = identity
	if s.hub.strictRooms && identity.Role != model.RoleAdmin {
		s.hub.rooms.Leave(s.conn, AdminRoom)
	}
	s.mu.Unlock()

	if previous != 0 {
		s.logger.Info().
			Int64("user_id", identity.UserID).
			Int64("previous_user_id", previous).
			Msg("Connection re-authenticated as another user")
	} else {
		s.logger.Info().Int64("user_id", identity.UserID).Msg("Connection authenticated")
	}

	s.reply(KindAuthenticated, map[string]int64{"user_id": identity.UserID})
	return true
}

// JoinRoom subscribes the connection to room and acknowledges it.
func (s *Session) JoinRoom(room string) bool {
	if room == "" {
		return false
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return false
	}
	if s.hub.strictRooms && room == AdminRoom && s.identity.Role != model.RoleAdmin {
		s.mu.Unlock()
		s.logger.Warn().Str("room", room).Msg("Non-admin connection refused from admin room")
		s.replyError(errs.NewError(errs.ErrForbidden))
		return false
	}
	s.hub.rooms.Join(s.conn, room)
	s.mu.Unlock()

	s.logger.Debug().Str("room", room).Msg("Joined room")
	s.reply(KindJoinedRoom, RoomRequest{Room: room})
	return true
}

// LeaveRoom unsubscribes the connection from room and acknowledges it.
func (s *Session) LeaveRoom(room string) bool {
	if room == "" {
		return false
	}

	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return false
	}
	s.hub.rooms.Leave(s.conn, room)
	s.mu.Unlock()

	s.logger.Debug().Str("room", room).Msg("Left room")
	s.reply(KindLeftRoom, RoomRequest{Room: room})
	return true
}

// SendMessage relays req.Message to a user's connections or to a room, without persistence.
// When both are given the recipient wins; an offline recipient means the message is dropped.
func (s *Session) SendMessage(req SendMessageRequest) int {
	if len(req.Message) == 0 || (req.RecipientID <= 0 && req.Room == "") {
		s.logger.Debug().Msg("send_message without target or message ignored")
		return 0
	}

	s.mu.Lock()
	closed := s.state == StateClosed
	sender := s.identity.UserID
	s.mu.Unlock()
	if closed {
		return 0
	}

	payload := RelayPayload{SenderID: sender, Message: req.Message}
	if req.RecipientID > 0 {
		payload.RecipientID = req.RecipientID
	} else {
		payload.Room = req.Room
	}

	return s.hub.router.Dispatch(RelayMessage{Payload: payload})
}

// Close moves the session to Closed and releases its registry and room entries.
// It is idempotent and valid from any state. The transport itself is closed by its owner.
func (s *Session) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	s.state = StateClosed
	s.hub.registry.Deregister(s.conn)
	s.hub.rooms.LeaveAll(s.conn)
	s.mu.Unlock()

	s.hub.forget(s)
	s.logger.Info().Msg("Connection closed")
}

func (s *Session) reply(kind EventKind, data any) {
	frame, err := Encode(kind, data)
	if err != nil {
		s.logger.Error().Err(err).Str("event", string(kind)).Msg("Failed to encode reply")
		return
	}
	if err := s.conn.Send(frame); err != nil {
		s.logger.Warn().Err(err).Str("event", string(kind)).Msg("Failed to queue reply")
	}
}

func (s *Session) replyError(customErr *errs.CustomError) {
	s.reply(KindError, ErrorPayload{Code: customErr.Code, Message: customErr.Message})
}
