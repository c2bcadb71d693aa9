package handler

import (
	"net/http"
	"strings"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

type CreateSOSInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

type StatusInput struct {
	Status model.TaskStatus `json:"status"`
}

// HandleCreateSOS raises an SOS at the given position and announces it to every connection.
// Citizens only.
func HandleCreateSOS(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input CreateSOSInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Latitude == nil || input.Longitude == nil || !validCoordinates(*input.Latitude, *input.Longitude) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		sos, err := deps.Store.CreateSOS(r.Context(), db.CreateSOSParams{
			CitizenID: user.ID,
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
			Address:   strings.TrimSpace(input.Address),
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("SOS request created", "sos_id", sos.ID, "citizen_id", user.ID)
		deps.Notifier.NotifySOSCreated(sos)

		resp.RespondSuccess(w, r, sos)
	}
}

// HandleListSOS lists SOS requests newest first. Citizens only see their own.
func HandleListSOS(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		status, customErr := statusFilter(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		filter := db.ReportFilter{Status: status}
		if user.Role == model.RoleCitizen {
			filter.CitizenID = user.ID
		}

		list, err := deps.Store.ListSOS(r.Context(), filter)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(list))
	}
}

func HandleGetSOS(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		sos, err := deps.Store.GetSOS(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrSOSNotFound))
			return
		}
		if user.Role == model.RoleCitizen && sos.CitizenID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		resp.RespondSuccess(w, r, sos)
	}
}

// HandleUpdateSOSStatus sets an SOS request's status. Admin only.
func HandleUpdateSOSStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input StatusInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if !input.Status.Valid() {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidStatus))
			return
		}

		sos, err := deps.Store.UpdateSOSStatus(r.Context(), id, input.Status)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrSOSNotFound))
			return
		}
		resp.RespondSuccess(w, r, sos)
	}
}

func HandleDeleteSOS(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Store.DeleteSOS(r.Context(), id); err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrSOSNotFound))
			return
		}

		logx.Info("SOS request deleted", "sos_id", id)
		resp.RespondSuccess(w, r, messageResponse("SOS request deleted successfully"))
	}
}
