package handler

import (
	"net/http"

	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

// HandleOnlineUsers lists the users holding at least one authenticated live connection.
// This is live presence, independent from the durable volunteer status. Admin only.
func HandleOnlineUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids := deps.Hub.Registry().OnlineUsers()
		resp.RespondSuccess(w, r, map[string]any{
			"user_ids": nonNil(ids),
			"count":    len(ids),
		})
	}
}

// HandleUserPresence reports whether one user is connected right now.
func HandleUserPresence(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user_id":     id,
			"online":      deps.Hub.Registry().IsOnline(id),
			"connections": len(deps.Hub.Registry().ConnectionsFor(id)),
		})
	}
}

// HandlePresenceStats exposes connection, room and dispatch counters. Admin only.
func HandlePresenceStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Hub.Stats())
	}
}
