package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq/internal/app/model"
	"resq/internal/pkg/auth/jwt"
	"resq/internal/pkg/errs"
)

const testSecret = "realtime-test-secret"

func frame(t *testing.T, kind EventKind, data any) []byte {
	t.Helper()

	b, err := Encode(kind, data)
	require.NoError(t, err)
	return b
}

func decodeData(t *testing.T, env Envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestConnectAcknowledgesWithConnectionID(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("sid-1")

	s := hub.Connect(conn)

	assert.Equal(t, StateConnected, s.State())
	env := conn.last(t)
	assert.Equal(t, KindConnectionEstablished, env.Event)

	var ack map[string]string
	decodeData(t, env, &ack)
	assert.Equal(t, "sid-1", ack["sid"])
	assert.Equal(t, 1, hub.Stats().Connections)
}

func TestAuthenticateRegistersAndAcknowledges(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)

	s.HandleFrame(frame(t, KindAuthenticate, AuthRequest{UserID: 7}))

	assert.Equal(t, StateAuthenticated, s.State())
	assert.Equal(t, int64(7), s.UserID())
	assert.True(t, hub.Registry().IsOnline(7))

	env := conn.last(t)
	assert.Equal(t, KindAuthenticated, env.Event)
	var ack map[string]int64
	decodeData(t, env, &ack)
	assert.Equal(t, int64(7), ack["user_id"])
}

func TestAuthenticateWithoutUserIsIgnored(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)
	conn.reset()

	s.HandleFrame(frame(t, KindAuthenticate, map[string]any{}))
	s.HandleFrame([]byte(`{"event":"authenticate"}`))
	s.HandleFrame([]byte(`{"event":"authenticate","data":"nope"}`))

	assert.Equal(t, StateConnected, s.State())
	assert.Empty(t, conn.received())
	assert.Empty(t, hub.Registry().OnlineUsers())
}

func TestReauthenticationReplacesPriorBinding(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)

	require.True(t, s.Authenticate(AuthRequest{UserID: 3}))
	require.True(t, s.Authenticate(AuthRequest{UserID: 4}))

	assert.False(t, hub.Registry().IsOnline(3))
	assert.True(t, hub.Registry().IsOnline(4))
	assert.Equal(t, int64(4), s.UserID())

	conns, users := hub.Registry().Count()
	assert.Equal(t, 1, conns)
	assert.Equal(t, 1, users)
}

func TestRoomJoinLeaveBeforeAuthentication(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)

	s.HandleFrame(frame(t, KindJoinRoom, RoomRequest{Room: "task:5"}))
	assert.Equal(t, KindJoinedRoom, conn.last(t).Event)
	assert.Equal(t, []string{"task:5"}, hub.Rooms().RoomsOf("a"))

	s.HandleFrame(frame(t, KindLeaveRoom, RoomRequest{Room: "task:5"}))
	env := conn.last(t)
	assert.Equal(t, KindLeftRoom, env.Event)
	var ack RoomRequest
	decodeData(t, env, &ack)
	assert.Equal(t, "task:5", ack.Room)
	assert.Empty(t, hub.Rooms().RoomsOf("a"))

	conn.reset()
	s.HandleFrame(frame(t, KindJoinRoom, RoomRequest{}))
	assert.Empty(t, conn.received(), "missing room name is ignored")
}

func TestCloseReleasesRegistryAndRooms(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)
	s.Authenticate(AuthRequest{UserID: 7})
	s.JoinRoom(AdminRoom)

	s.Close()
	s.Close()

	assert.Equal(t, StateClosed, s.State())
	assert.False(t, hub.Registry().IsOnline(7))
	assert.Empty(t, hub.Rooms().MembersOf(AdminRoom))
	assert.Zero(t, hub.Stats().Connections)

	assert.False(t, s.Authenticate(AuthRequest{UserID: 7}))
	assert.False(t, s.JoinRoom(AdminRoom))
	assert.False(t, hub.Registry().IsOnline(7))
}

func TestCloseNeverAuthenticatedIsSafe(t *testing.T) {
	hub := NewHub(HubOptions{})
	s := hub.Connect(newFakeConn("a"))

	assert.NotPanics(t, s.Close)
	assert.Equal(t, StateClosed, s.State())
}

func TestSendMessageRoutesToRecipientBeforeRoom(t *testing.T) {
	hub := NewHub(HubOptions{})
	sender := newFakeConn("s")
	recipient := newFakeConn("r")
	roomMember := newFakeConn("m")

	ss := hub.Connect(sender)
	ss.Authenticate(AuthRequest{UserID: 1})
	hub.Connect(recipient).Authenticate(AuthRequest{UserID: 2})
	hub.Connect(roomMember).JoinRoom("task:9")
	recipient.reset()
	roomMember.reset()

	n := ss.SendMessage(SendMessageRequest{RecipientID: 2, Room: "task:9", Message: json.RawMessage(`"on my way"`)})
	assert.Equal(t, 1, n)
	assert.Empty(t, roomMember.received())

	env := recipient.last(t)
	assert.Equal(t, KindNewMessage, env.Event)
	var payload RelayPayload
	decodeData(t, env, &payload)
	assert.Equal(t, int64(1), payload.SenderID)
	assert.JSONEq(t, `"on my way"`, string(payload.Message))

	n = ss.SendMessage(SendMessageRequest{Room: "task:9", Message: json.RawMessage(`{"text":"hi"}`)})
	assert.Equal(t, 1, n)
	assert.Equal(t, KindNewMessage, roomMember.last(t).Event)
}

func TestSendMessageToOfflineRecipientIsDropped(t *testing.T) {
	hub := NewHub(HubOptions{})
	roomMember := newFakeConn("m")
	s := hub.Connect(newFakeConn("s"))
	hub.Connect(roomMember).JoinRoom("ops")
	roomMember.reset()

	s.HandleFrame(frame(t, KindSendMessage, SendMessageRequest{RecipientID: 404, Room: "ops", Message: json.RawMessage(`"x"`)}))
	assert.Empty(t, roomMember.received())

	assert.Zero(t, s.SendMessage(SendMessageRequest{Message: json.RawMessage(`"x"`)}))
	assert.Zero(t, s.SendMessage(SendMessageRequest{Room: "ops"}))
}

func TestStrictRoomsRequireAdminForAdminRoom(t *testing.T) {
	hub := NewHub(HubOptions{Authenticator: TokenAuthenticator{Secret: testSecret}, StrictRooms: true})

	citizenConn := newFakeConn("c")
	citizen := hub.Connect(citizenConn)
	require.True(t, citizen.Authenticate(AuthRequest{Token: accessToken(t, 3, "citizen")}))

	assert.False(t, citizen.JoinRoom(AdminRoom))
	env := citizenConn.last(t)
	assert.Equal(t, KindError, env.Event)
	var e ErrorPayload
	decodeData(t, env, &e)
	assert.Equal(t, errs.ErrForbidden, e.Code)

	assert.True(t, citizen.JoinRoom("task:1"), "other rooms stay open")

	admin := hub.Connect(newFakeConn("a"))
	require.True(t, admin.Authenticate(AuthRequest{Token: accessToken(t, 1, "admin")}))
	assert.True(t, admin.JoinRoom(AdminRoom))
	assert.Len(t, hub.Rooms().MembersOf(AdminRoom), 1)
}

func TestStrictRoomsReauthenticationLeavesAdminRoom(t *testing.T) {
	hub := NewHub(HubOptions{Authenticator: TokenAuthenticator{Secret: testSecret}, StrictRooms: true})
	conn := newFakeConn("a")
	s := hub.Connect(conn)

	require.True(t, s.Authenticate(AuthRequest{Token: accessToken(t, 1, "admin")}))
	require.True(t, s.JoinRoom(AdminRoom))
	require.True(t, s.JoinRoom("task:9"))

	require.True(t, s.Authenticate(AuthRequest{Token: accessToken(t, 5, "citizen")}))
	assert.Empty(t, hub.Rooms().MembersOf(AdminRoom))
	assert.Equal(t, []string{"task:9"}, hub.Rooms().RoomsOf(conn.ID()))

	conn.reset()
	n := hub.Router().Dispatch(UserLocationUpdated{Location: model.UserLocation{UserID: 5}})
	assert.Zero(t, n)
	assert.Empty(t, conn.received())

	// Re-authenticating as an admin keeps the membership.
	require.True(t, s.Authenticate(AuthRequest{Token: accessToken(t, 1, "admin")}))
	require.True(t, s.JoinRoom(AdminRoom))
	require.True(t, s.Authenticate(AuthRequest{Token: accessToken(t, 2, "admin")}))
	assert.Len(t, hub.Rooms().MembersOf(AdminRoom), 1)
}

func TestTokenAuthenticator(t *testing.T) {
	hub := NewHub(HubOptions{Authenticator: TokenAuthenticator{Secret: testSecret}})
	conn := newFakeConn("a")
	s := hub.Connect(conn)
	conn.reset()

	assert.False(t, s.Authenticate(AuthRequest{UserID: 5}), "user id alone is not enough")
	assert.Empty(t, conn.received())

	assert.False(t, s.Authenticate(AuthRequest{Token: "garbage"}))
	assert.Equal(t, KindError, conn.last(t).Event)

	assert.False(t, s.Authenticate(AuthRequest{UserID: 6, Token: accessToken(t, 5, "volunteer")}))

	refresh, err := jwt.GenerateToken(&jwt.Payload{UserID: 5, Role: "volunteer", TokenType: jwt.TypeRefresh}, testSecret, time.Minute)
	require.NoError(t, err)
	assert.False(t, s.Authenticate(AuthRequest{Token: refresh}))

	assert.True(t, s.Authenticate(AuthRequest{UserID: 5, Token: accessToken(t, 5, "volunteer")}))
	assert.True(t, hub.Registry().IsOnline(5))
}

func TestHandleFrameIgnoresGarbage(t *testing.T) {
	hub := NewHub(HubOptions{})
	conn := newFakeConn("a")
	s := hub.Connect(conn)
	conn.reset()

	assert.NotPanics(t, func() {
		s.HandleFrame([]byte("not json"))
		s.HandleFrame([]byte(`{"event":"dance","data":{}}`))
		s.HandleFrame([]byte(`{}`))
	})
	assert.Empty(t, conn.received())
	assert.Equal(t, StateConnected, s.State())
}

func TestShutdownClosesConnectionsAndClearsState(t *testing.T) {
	hub := NewHub(HubOptions{})
	a, b := newFakeConn("a"), newFakeConn("b")
	hub.Connect(a).Authenticate(AuthRequest{UserID: 1})
	hub.Connect(b).JoinRoom(AdminRoom)

	hub.Shutdown()

	assert.True(t, a.isClosed())
	assert.True(t, b.isClosed())
	assert.Empty(t, hub.Registry().All())
	assert.Zero(t, hub.Rooms().Count())
	assert.Zero(t, hub.Stats().Connections)

	late := newFakeConn("late")
	s := hub.Connect(late)
	assert.Equal(t, StateClosed, s.State())
	assert.True(t, late.isClosed())
}

func accessToken(t *testing.T, userID int64, role string) string {
	t.Helper()

	token, err := jwt.GenerateToken(&jwt.Payload{UserID: userID, Role: role, TokenType: jwt.TypeAccess}, testSecret, time.Minute)
	require.NoError(t, err)
	return token
}
