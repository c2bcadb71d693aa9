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

type CreateIncidentInput struct {
	IncidentType model.IncidentType `json:"incident_type"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Latitude     *float64           `json:"latitude"`
	Longitude    *float64           `json:"longitude"`
	Address      string             `json:"address"`
	ImageKey     string             `json:"image_key"`
}

type UpdateIncidentInput struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Status      *model.TaskStatus `json:"status"`
	ImageKey    *string           `json:"image_key"`
}

// HandleCreateIncident files an incident report and announces it to every connection.
// Citizens only.
func HandleCreateIncident(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input CreateIncidentInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Title = strings.TrimSpace(input.Title)
		input.Description = strings.TrimSpace(input.Description)
		if !input.IncidentType.Valid() || input.Title == "" || input.Description == "" ||
			input.Latitude == nil || input.Longitude == nil || !validCoordinates(*input.Latitude, *input.Longitude) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if input.ImageKey != "" {
			if customErr := checkUploadedImage(r.Context(), deps, user.ID, input.ImageKey); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		incident, err := deps.Store.CreateIncident(r.Context(), db.CreateIncidentParams{
			CitizenID:    user.ID,
			IncidentType: input.IncidentType,
			Title:        input.Title,
			Description:  input.Description,
			Latitude:     *input.Latitude,
			Longitude:    *input.Longitude,
			Address:      strings.TrimSpace(input.Address),
			ImageKey:     input.ImageKey,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		logx.Info("Incident report created", "incident_id", incident.ID, "citizen_id", user.ID, "type", incident.IncidentType)
		deps.Notifier.NotifyIncidentCreated(incident)

		resp.RespondSuccess(w, r, incident)
	}
}

// HandleListIncidents lists incident reports newest first. Citizens only see their own.
func HandleListIncidents(deps *AppDeps) http.HandlerFunc {
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

		list, err := deps.Store.ListIncidents(r.Context(), filter)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if raw := r.URL.Query().Get("incident_type"); raw != "" {
			kept := list[:0]
			for _, inc := range list {
				if string(inc.IncidentType) == raw {
					kept = append(kept, inc)
				}
			}
			list = kept
		}

		resp.RespondSuccess(w, r, nonNil(list))
	}
}

func HandleGetIncident(deps *AppDeps) http.HandlerFunc {
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

		incident, err := deps.Store.GetIncident(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
			return
		}
		if user.Role == model.RoleCitizen && incident.CitizenID != user.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		resp.RespondSuccess(w, r, incident)
	}
}

// HandleUpdateIncident edits an incident report. Admin only. A replaced image is removed from
// storage; a new image key must already be uploaded by the reporting citizen.
func HandleUpdateIncident(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateIncidentInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Status != nil && !input.Status.Valid() {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidStatus))
			return
		}

		existing, err := deps.Store.GetIncident(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
			return
		}

		if input.ImageKey != nil && *input.ImageKey != "" && *input.ImageKey != existing.ImageKey {
			if customErr := checkUploadedImage(r.Context(), deps, existing.CitizenID, *input.ImageKey); customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}
		}

		incident, err := deps.Store.UpdateIncident(r.Context(), id, db.UpdateIncidentParams{
			Title:       input.Title,
			Description: input.Description,
			Status:      input.Status,
			ImageKey:    input.ImageKey,
		})
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
			return
		}

		if existing.ImageKey != "" && existing.ImageKey != incident.ImageKey {
			deleteImageAsync(deps, existing.ImageKey)
		}

		resp.RespondSuccess(w, r, incident)
	}
}

// HandleDeleteIncident removes an incident report and its image. Admin only.
func HandleDeleteIncident(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		existing, err := deps.Store.GetIncident(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
			return
		}

		if err := deps.Store.DeleteIncident(r.Context(), id); err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
			return
		}

		deleteImageAsync(deps, existing.ImageKey)

		logx.Info("Incident report deleted", "incident_id", id)
		resp.RespondSuccess(w, r, messageResponse("Incident report deleted successfully"))
	}
}
