package handler

import (
	"net/http"
	"slices"

	"resq/internal/app/db"
	"resq/internal/app/geo"
	"resq/internal/app/model"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

type CreateTaskInput struct {
	VolunteerID      int64  `json:"volunteer_id"`
	SOSRequestID     *int64 `json:"sos_request_id"`
	IncidentReportID *int64 `json:"incident_report_id"`
	Notes            string `json:"notes"`
}

type UpdateTaskInput struct {
	Status *model.TaskStatus `json:"status"`
	Notes  *string           `json:"notes"`
}

// HandleCreateTask assigns a volunteer to an SOS request and/or incident and notifies the
// volunteer. Admin only.
func HandleCreateTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateTaskInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		volunteer, err := deps.Store.GetUser(r.Context(), input.VolunteerID)
		if err != nil && !db.IsNotFound(err) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if volunteer == nil || volunteer.Role != model.RoleVolunteer {
			resp.RespondError(w, r, errs.NewError(errs.ErrVolunteerNotFound))
			return
		}

		if input.SOSRequestID == nil && input.IncidentReportID == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrTaskTargetMissing))
			return
		}
		if input.SOSRequestID != nil {
			if _, err := deps.Store.GetSOS(r.Context(), *input.SOSRequestID); err != nil {
				resp.RespondError(w, r, storeError(err, errs.ErrSOSNotFound))
				return
			}
		}
		if input.IncidentReportID != nil {
			if _, err := deps.Store.GetIncident(r.Context(), *input.IncidentReportID); err != nil {
				resp.RespondError(w, r, storeError(err, errs.ErrIncidentNotFound))
				return
			}
		}

		task, err := deps.Store.CreateTask(r.Context(), db.CreateTaskParams{
			VolunteerID:      volunteer.ID,
			SOSRequestID:     input.SOSRequestID,
			IncidentReportID: input.IncidentReportID,
			Notes:            input.Notes,
		})
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrTaskTargetMissing))
			return
		}

		logx.Info("Task assigned", "task_id", task.ID, "volunteer_id", volunteer.ID)
		deps.Notifier.NotifyTaskAssigned(task, volunteer.ID)

		resp.RespondSuccess(w, r, task)
	}
}

// HandleListTasks lists tasks newest first: volunteers see theirs, citizens those on their
// reports, admins everything.
func HandleListTasks(deps *AppDeps) http.HandlerFunc {
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

		filter := db.TaskFilter{Status: status}
		switch user.Role {
		case model.RoleVolunteer:
			filter.VolunteerID = user.ID
		case model.RoleCitizen:
			filter.CitizenID = user.ID
		}

		tasks, err := deps.Store.ListTasks(r.Context(), filter)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(tasks))
	}
}

// HandleNearbyWork lists pending SOS requests and incidents within geo.NearbyRadiusKm of the
// volunteer's last reported location, closest first. Volunteers only.
func HandleNearbyWork(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}
		if !user.HasLocation() {
			resp.RespondError(w, r, errs.NewError(errs.ErrLocationRequired))
			return
		}
		lat, lon := *user.Latitude, *user.Longitude

		pendingSOS, err := deps.Store.ListSOS(r.Context(), db.ReportFilter{Status: model.StatusPending})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		pendingIncidents, err := deps.Store.ListIncidents(r.Context(), db.ReportFilter{Status: model.StatusPending})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		work := []model.NearbyWork{}
		for i := range pendingSOS {
			sos := &pendingSOS[i]
			if d, ok := geo.Nearby(lat, lon, sos.Latitude, sos.Longitude); ok {
				work = append(work, model.NearbyWork{SOSRequest: sos, DistanceKm: d})
			}
		}
		for i := range pendingIncidents {
			inc := &pendingIncidents[i]
			if d, ok := geo.Nearby(lat, lon, inc.Latitude, inc.Longitude); ok {
				work = append(work, model.NearbyWork{IncidentReport: inc, DistanceKm: d})
			}
		}

		slices.SortStableFunc(work, func(a, b model.NearbyWork) int {
			switch {
			case a.DistanceKm < b.DistanceKm:
				return -1
			case a.DistanceKm > b.DistanceKm:
				return 1
			}
			return 0
		})

		resp.RespondSuccess(w, r, work)
	}
}

func HandleGetTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		task, customErr := loadTask(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if !canViewTask(user, task) {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		resp.RespondSuccess(w, r, task)
	}
}

// HandleUpdateTask changes a task's status and notes, mirrors the status onto the linked
// reports and notifies the volunteer and the owning citizens. Only the assigned volunteer or
// an admin may update.
func HandleUpdateTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		task, customErr := loadTask(deps, r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		switch user.Role {
		case model.RoleAdmin:
		case model.RoleVolunteer:
			if task.VolunteerID == nil || *task.VolunteerID != user.ID {
				resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
				return
			}
		default:
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		var input UpdateTaskInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Status != nil && !input.Status.Valid() {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidStatus))
			return
		}

		updated, err := deps.Store.UpdateTask(r.Context(), task.ID, db.UpdateTaskParams{
			Status: input.Status,
			Notes:  input.Notes,
		})
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
			return
		}

		logx.Info("Task updated", "task_id", updated.ID, "status", updated.Status, "by_user", user.ID)
		deps.Notifier.NotifyTaskUpdated(updated, updated.Participants())

		resp.RespondSuccess(w, r, updated)
	}
}

func HandleDeleteTask(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Store.DeleteTask(r.Context(), id); err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrTaskNotFound))
			return
		}

		logx.Info("Task deleted", "task_id", id)
		resp.RespondSuccess(w, r, messageResponse("Task deleted successfully"))
	}
}

func loadTask(deps *AppDeps, r *http.Request) (*model.Task, *errs.CustomError) {
	id, customErr := req.PathID(r, "id")
	if customErr != nil {
		return nil, customErr
	}

	task, err := deps.Store.GetTask(r.Context(), id)
	if err != nil {
		return nil, storeError(err, errs.ErrTaskNotFound)
	}
	return task, nil
}
