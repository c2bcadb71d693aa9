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

// UpdateUserInput holds the optional fields of a profile update. Coordinates are applied only
// when both are present; VolunteerStatus only for volunteers.
type UpdateUserInput struct {
	FullName        *string                `json:"full_name"`
	Phone           *string                `json:"phone"`
	Address         *string                `json:"address"`
	Latitude        *float64               `json:"latitude"`
	Longitude       *float64               `json:"longitude"`
	VolunteerStatus *model.VolunteerStatus `json:"volunteer_status"`
}

type LocationInput struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`
}

type VolunteerStatusInput struct {
	Status model.VolunteerStatus `json:"status"`
}

func HandleGetMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}
		resp.RespondSuccess(w, r, user)
	}
}

func HandleUpdateMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input UpdateUserInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, customErr := applyUserUpdate(deps, r, user, input)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r, updated)
	}
}

// HandleUpdateLocation stores the caller's coordinates and announces them to the admin room.
func HandleUpdateLocation(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}

		var input LocationInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.Latitude == nil || input.Longitude == nil || !validCoordinates(*input.Latitude, *input.Longitude) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		address := user.Address
		if strings.TrimSpace(input.Address) != "" {
			address = strings.TrimSpace(input.Address)
		}

		updated, customErr := updateLocation(deps, r, user.ID, *input.Latitude, *input.Longitude, address)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r, updated)
	}
}

// HandleUpdateVolunteerStatus changes a volunteer's availability and announces it to everyone.
func HandleUpdateVolunteerStatus(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(deps, w, r)
		if user == nil {
			return
		}
		if user.Role != model.RoleVolunteer {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		var input VolunteerStatusInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if !input.Status.Valid() {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidStatus))
			return
		}

		updated, customErr := updateVolunteerStatus(deps, r, user.ID, input.Status)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r, updated)
	}
}

// HandleListUsers lists accounts, optionally filtered by role. Admin only.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := db.UserFilter{}
		if raw := r.URL.Query().Get("role"); raw != "" {
			filter.Role = model.Role(raw)
			if !filter.Role.Valid() {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidRole))
				return
			}
		}

		users, err := deps.Store.ListUsers(r.Context(), filter)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(users))
	}
}

// HandleListOnlineVolunteers lists volunteers whose durable status is online.
func HandleListOnlineVolunteers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := deps.Store.ListUsers(r.Context(), db.UserFilter{
			Role:            model.RoleVolunteer,
			VolunteerStatus: model.VolunteerOnline,
		})
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		resp.RespondSuccess(w, r, nonNil(users))
	}
}

func HandleGetUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Store.GetUser(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrUserNotFound))
			return
		}
		resp.RespondSuccess(w, r, user)
	}
}

// HandleAdminUpdateUser updates any account except other administrators. Admin only.
func HandleAdminUpdateUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		admin := currentUser(deps, w, r)
		if admin == nil {
			return
		}

		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		target, err := deps.Store.GetUser(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrUserNotFound))
			return
		}
		if target.Role == model.RoleAdmin && target.ID != admin.ID {
			resp.RespondError(w, r, errs.NewError(errs.ErrAdminProtected))
			return
		}

		var input UpdateUserInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		updated, customErr := applyUserUpdate(deps, r, target, input)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		logx.Info("User updated by admin", "admin_id", admin.ID, "user_id", target.ID)
		resp.RespondSuccess(w, r, updated)
	}
}

// HandleDeleteUser removes a non-admin account. Admin only.
func HandleDeleteUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, customErr := req.PathID(r, "id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		target, err := deps.Store.GetUser(r.Context(), id)
		if err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrUserNotFound))
			return
		}
		if target.Role == model.RoleAdmin {
			resp.RespondError(w, r, errs.NewError(errs.ErrAdminProtected))
			return
		}

		if err := deps.Store.DeleteUser(r.Context(), id); err != nil {
			resp.RespondError(w, r, storeError(err, errs.ErrUserNotFound))
			return
		}

		logx.Info("User deleted", "user_id", id)
		resp.RespondSuccess(w, r, messageResponse("User deleted successfully"))
	}
}

// applyUserUpdate writes the profile, location and volunteer status parts of input in turn,
// emitting the matching realtime events.
func applyUserUpdate(deps *AppDeps, r *http.Request, user *model.User, input UpdateUserInput) (*model.User, *errs.CustomError) {
	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, errs.NewError(errs.ErrInvalidParams)
		}
		input.FullName = &name
	}

	updated := user
	if input.FullName != nil || input.Phone != nil || input.Address != nil {
		var err error
		updated, err = deps.Store.UpdateUserProfile(r.Context(), user.ID, db.UpdateProfileParams{
			FullName: input.FullName,
			Phone:    input.Phone,
			Address:  input.Address,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				return nil, errs.NewError(errs.ErrUserAlreadyExists, "Phone")
			}
			return nil, storeError(err, errs.ErrUserNotFound)
		}
	}

	if input.Latitude != nil && input.Longitude != nil {
		if !validCoordinates(*input.Latitude, *input.Longitude) {
			return nil, errs.NewError(errs.ErrInvalidParams)
		}

		var customErr *errs.CustomError
		updated, customErr = updateLocation(deps, r, user.ID, *input.Latitude, *input.Longitude, updated.Address)
		if customErr != nil {
			return nil, customErr
		}
	}

	if input.VolunteerStatus != nil && user.Role == model.RoleVolunteer {
		if !input.VolunteerStatus.Valid() {
			return nil, errs.NewError(errs.ErrInvalidStatus)
		}

		var customErr *errs.CustomError
		updated, customErr = updateVolunteerStatus(deps, r, user.ID, *input.VolunteerStatus)
		if customErr != nil {
			return nil, customErr
		}
	}

	return updated, nil
}

func updateLocation(deps *AppDeps, r *http.Request, userID int64, lat, lon float64, address string) (*model.User, *errs.CustomError) {
	updated, err := deps.Store.UpdateUserLocation(r.Context(), userID, db.LocationParams{
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
	})
	if err != nil {
		return nil, storeError(err, errs.ErrUserNotFound)
	}

	deps.Notifier.NotifyUserLocationUpdated(model.UserLocation{
		UserID:    updated.ID,
		FullName:  updated.FullName,
		Role:      updated.Role,
		Latitude:  lat,
		Longitude: lon,
		Address:   updated.Address,
		UpdatedAt: updated.UpdatedAt,
	})
	return updated, nil
}

func updateVolunteerStatus(deps *AppDeps, r *http.Request, userID int64, status model.VolunteerStatus) (*model.User, *errs.CustomError) {
	updated, err := deps.Store.UpdateVolunteerStatus(r.Context(), userID, status)
	if err != nil {
		return nil, storeError(err, errs.ErrUserNotFound)
	}

	deps.Notifier.NotifyVolunteerStatusChanged(model.VolunteerStatusChange{
		UserID:      updated.ID,
		FullName:    updated.FullName,
		VolunteerID: updated.VolunteerID,
		Status:      updated.VolunteerStatus,
		UpdatedAt:   updated.UpdatedAt,
	})
	return updated, nil
}

func validCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// nonNil keeps empty listings encoded as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
