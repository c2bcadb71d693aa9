package jwt

import "github.com/golang-jwt/jwt"

const (
	// TypeAccess marks short-lived tokens accepted on API calls and socket authentication.
	TypeAccess = "access"

	// TypeRefresh marks long-lived tokens accepted only by the refresh endpoint.
	TypeRefresh = "refresh"
)

// Payload is the claim set carried by RESQ tokens.
type Payload struct {
	jwt.StandardClaims

	// UserID is the durable user identifier; Subject holds the same value as a string.
	UserID int64 `json:"uid"`

	// Role is one of citizen, volunteer or admin.
	Role string `json:"role"`

	// TokenType distinguishes access from refresh tokens.
	TokenType string `json:"typ"`
}
