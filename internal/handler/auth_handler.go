/*
Package handler provides the REST handlers, the websocket endpoint and the HTTP routing of the
RESQ server.
*/
package handler

import (
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"resq/internal/app/db"
	"resq/internal/app/model"
	"resq/internal/pkg/auth/jwt"
	"resq/internal/pkg/errs"
	"resq/internal/pkg/logx"
	"resq/internal/pkg/randx"
	"resq/internal/pkg/req"
	"resq/internal/pkg/resp"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

type RegisterInput struct {
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	VolunteerID string     `json:"volunteer_id"`
	FullName    string     `json:"full_name"`
	Role        model.Role `json:"role"`
	Password    string     `json:"password"`
}

type LoginInput struct {
	Identifier string     `json:"identifier"`
	Password   string     `json:"password"`
	Role       model.Role `json:"role,omitempty"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register, login and refresh.
type AuthResponse struct {
	*jwt.TokenPair
	User *model.User `json:"user"`
}

// HandleRegister creates a citizen or volunteer account and signs it in.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		input.Phone = strings.TrimSpace(input.Phone)
		input.VolunteerID = strings.ToUpper(strings.TrimSpace(input.VolunteerID))
		input.FullName = strings.TrimSpace(input.FullName)
		if input.Role == "" {
			input.Role = model.RoleCitizen
		}

		if customErr := validateRegistration(&input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := checkIdentifiersFree(deps, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Role == model.RoleVolunteer && input.VolunteerID == "" {
			id, err := randx.VolunteerID()
			if err != nil {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
				return
			}
			input.VolunteerID = id
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		user, err := deps.Store.CreateUser(r.Context(), db.CreateUserParams{
			Email:        input.Email,
			Phone:        input.Phone,
			VolunteerID:  input.VolunteerID,
			PasswordHash: string(hashedPassword),
			FullName:     input.FullName,
			Role:         input.Role,
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("registration conflict: account already exists", "role", input.Role)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists, "Account"))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("User registered", "user_id", user.ID, "role", user.Role)
		respondWithTokens(deps, w, r, user)
	}
}

func validateRegistration(input *RegisterInput) *errs.CustomError {
	if input.Email == "" && input.Phone == "" && input.VolunteerID == "" {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if input.Email != "" && !emailRegex.MatchString(input.Email) {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if input.FullName == "" || utf8.RuneCountInString(input.FullName) > 255 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	// Administrators are provisioned by configuration, never by self-registration.
	if !input.Role.Valid() || input.Role == model.RoleAdmin {
		return errs.NewError(errs.ErrInvalidRole)
	}
	if input.VolunteerID != "" && input.Role != model.RoleVolunteer {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if n := len(input.Password); n < minPasswordLen || n > maxPasswordLen {
		return errs.NewError(errs.ErrInvalidPassword)
	}
	return nil
}

func checkIdentifiersFree(deps *AppDeps, r *http.Request, input *RegisterInput) *errs.CustomError {
	checks := []struct {
		field db.LoginField
		value string
		label string
	}{
		{db.LoginEmail, input.Email, "Email"},
		{db.LoginPhone, input.Phone, "Phone"},
		{db.LoginVolunteerID, input.VolunteerID, "Volunteer ID"},
	}

	for _, c := range checks {
		if c.value == "" {
			continue
		}
		_, err := deps.Store.FindUserByLogin(r.Context(), c.field, c.value)
		switch {
		case err == nil:
			return errs.NewError(errs.ErrUserAlreadyExists, c.label)
		case !db.IsNotFound(err):
			return errs.NewError(errs.ErrUnknown, err)
		}
	}
	return nil
}

// loginField picks the column an identifier is matched against: an "@" means email, the
// volunteer prefix means a badge id, anything else is a phone number.
func loginField(identifier string) db.LoginField {
	switch {
	case strings.Contains(identifier, "@"):
		return db.LoginEmail
	case randx.IsVolunteerID(identifier):
		return db.LoginVolunteerID
	default:
		return db.LoginPhone
	}
}

// HandleLogin authenticates by email, phone or volunteer id. When a role is supplied the
// account must hold it.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		identifier := strings.TrimSpace(input.Identifier)
		if identifier == "" || input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		field := loginField(identifier)
		if field == db.LoginEmail {
			identifier = strings.ToLower(identifier)
		}

		user, err := deps.Store.FindUserByLogin(r.Context(), field, identifier)
		if err != nil {
			if db.IsNotFound(err) {
				logx.Warn("Login failed: unknown identifier", "field", field)
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("Login failed: wrong password", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if input.Role != "" && user.Role != input.Role {
			logx.Warn("Login failed: role mismatch", "user_id", user.ID, "requested_role", input.Role)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if !user.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrInactiveUser))
			return
		}

		logx.Info("User logged in", "user_id", user.ID, "role", user.Role)
		respondWithTokens(deps, w, r, user)
	}
}

// HandleRefresh exchanges a valid refresh token for a new token pair.
func HandleRefresh(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RefreshInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		payload, err := jwt.ParseTyped(input.RefreshToken, deps.Config.JWTSecret, jwt.TypeRefresh)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		user, err := deps.Store.GetUser(r.Context(), payload.UserID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
				return
			}
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}
		if !user.IsActive {
			resp.RespondError(w, r, errs.NewError(errs.ErrInactiveUser))
			return
		}

		respondWithTokens(deps, w, r, user)
	}
}

func respondWithTokens(deps *AppDeps, w http.ResponseWriter, r *http.Request, user *model.User) {
	pair, err := jwt.IssuePair(user.ID, string(user.Role), deps.Config.JWTSecret, deps.Config.AccessTTL, deps.Config.RefreshTTL)
	if err != nil {
		logx.Error(err, "failed to issue tokens", "user_id", user.ID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, AuthResponse{TokenPair: pair, User: user})
}
