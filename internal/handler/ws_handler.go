package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"resq/internal/app/realtime"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/limiter"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/resp"
)

// HandleWebSocket upgrades the request and hands the connection to the realtime hub.
// The connection starts anonymous; identity arrives later through the authenticate event.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rateLimiter.Allow(r) {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", limiter.ClientIP(r))
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := realtime.NewClient(conn, deps.Config.WSSendBuffer)
		session := deps.Hub.Connect(client)

		go client.WritePump()

		client.ReadPump(session)
	}
}
