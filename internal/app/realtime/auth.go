package realtime

import (
	"errors"
	"fmt"

	"resq/internal/app/model"
	"resq/internal/pkg/auth/jwt"
)

// ErrMissingIdentity marks an authenticate request without the fields needed to identify the
// user. Such requests are ignored without a reply.
var ErrMissingIdentity = errors.New("authenticate request carries no identity")

// AuthRequest is the payload of the inbound authenticate event.
type AuthRequest struct {
	UserID int64  `json:"user_id"`
	Token  string `json:"token,omitempty"`
}

// Identity is who a connection authenticated as.
type Identity struct {
	UserID int64
	Role   model.Role
}

// Authenticator turns an authenticate request into an identity.
type Authenticator interface {
	Authenticate(req AuthRequest) (Identity, error)
}

// TrustAuthenticator accepts any positive user id as-is. The role stays unknown.
type TrustAuthenticator struct{}

// Authenticate implements Authenticator.
func (TrustAuthenticator) Authenticate(req AuthRequest) (Identity, error) {
	if req.UserID <= 0 {
		return Identity{}, ErrMissingIdentity
	}
	return Identity{UserID: req.UserID}, nil
}

// TokenAuthenticator requires a valid access token; the token subject is the user.
// A user_id sent next to the token must match it.
type TokenAuthenticator struct {
	Secret string
}

// Authenticate implements Authenticator.
func (a TokenAuthenticator) Authenticate(req AuthRequest) (Identity, error) {
	if req.Token == "" {
		return Identity{}, ErrMissingIdentity
	}

	payload, err := jwt.ParseTyped(req.Token, a.Secret, jwt.TypeAccess)
	if err != nil {
		return Identity{}, err
	}

	if req.UserID != 0 && req.UserID != payload.UserID {
		return Identity{}, fmt.Errorf("user_id %d does not match token subject %d", req.UserID, payload.UserID)
	}

	return Identity{UserID: payload.UserID, Role: model.Role(payload.Role)}, nil
}
