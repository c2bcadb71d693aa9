package handler

import (
	"net/http"

	"resq/internal/app/db"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/resp"
)

// HandleDashboardStats returns counters scoped to the caller's role.
func HandleDashboardStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		stats, err := deps.Store.DashboardStats(r.Context(), db.StatsScope{Role: user.Role, UserID: user.ID})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, stats)
	}
}
