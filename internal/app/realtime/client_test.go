package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resq/internal/app/model"
)

func startSocketServer(t *testing.T, hub *Hub) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(ws, 16)
		session := hub.Connect(client)
		go client.WritePump()
		go client.ReadPump(session)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readEnvelope(t *testing.T, ws *websocket.Conn) Envelope {
	t.Helper()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	return env
}

func writeEvent(t *testing.T, ws *websocket.Conn, kind EventKind, data any) {
	t.Helper()

	b, err := Encode(kind, data)
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, b))
}

func TestWebSocketEndToEnd(t *testing.T) {
	hub := NewHub(HubOptions{})
	url := startSocketServer(t, hub)

	ws := dial(t, url)

	env := readEnvelope(t, ws)
	require.Equal(t, KindConnectionEstablished, env.Event)
	var established map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &established))
	assert.NotEmpty(t, established["sid"])

	writeEvent(t, ws, KindAuthenticate, AuthRequest{UserID: 7})
	require.Equal(t, KindAuthenticated, readEnvelope(t, ws).Event)
	require.True(t, hub.Registry().IsOnline(7))

	hub.Router().NotifyTaskAssigned(&model.Task{ID: 99, Status: model.StatusAssigned}, 7)

	env = readEnvelope(t, ws)
	require.Equal(t, KindTaskAssigned, env.Event)
	var task model.Task
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, int64(99), task.ID)

	require.NoError(t, ws.Close())
	assert.Eventually(t, func() bool {
		return !hub.Registry().IsOnline(7) && hub.Stats().Connections == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketShutdownSendsCloseFrame(t *testing.T) {
	hub := NewHub(HubOptions{})
	url := startSocketServer(t, hub)

	ws := dial(t, url)
	readEnvelope(t, ws)

	hub.Shutdown()

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestClientSendAfterCloseFails(t *testing.T) {
	c := &Client{id: "x", send: make(chan []byte, 1)}

	require.NoError(t, c.Send([]byte("a")))
	assert.ErrorIs(t, c.Send([]byte("b")), ErrSendQueueFull)

	c.Close()
	c.Close()
	assert.ErrorIs(t, c.Send([]byte("c")), ErrConnClosed)
}
