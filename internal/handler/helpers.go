package handler

import (
	"net/http"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/auth/jwt"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/resp"
)

// currentUser loads the account behind the request's access token. It writes the error
// response itself and returns nil when the caller is anonymous, unknown or inactive.
func currentUser(deps *AppDeps, w http.ResponseWriter, r *http.Request) *model.User {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return nil
	}

	user, err := deps.Store.GetUser(r.Context(), payload.UserID)
	if err != nil {
		if db.IsNotFound(err) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return nil
		}
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
		return nil
	}

	if !user.IsActive {
		resp.RespondError(w, r, errs.NewError(errs.ErrInactiveUser))
		return nil
	}
	return user
}

// storeError maps a persistence error to a response error, using notFoundCode for missing rows.
func storeError(err error, notFoundCode int) *errs.CustomError {
	if db.IsNotFound(err) {
		return errs.NewError(notFoundCode)
	}
	return errs.NewError(errs.ErrUnknown, err)
}

// statusFilter parses the optional status query parameter.
func statusFilter(r *http.Request) (model.TaskStatus, *errs.CustomError) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", nil
	}

	status := model.TaskStatus(raw)
	if !status.Valid() {
		return "", errs.NewError(errs.ErrInvalidStatus)
	}
	return status, nil
}

// canViewTask reports whether user may read a task and its thread.
func canViewTask(user *model.User, task *model.Task) bool {
	return user.Role == model.RoleAdmin || task.IsParticipant(user.ID)
}

func messageResponse(text string) map[string]string {
	return map[string]string{"message": text}
}
