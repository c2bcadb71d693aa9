package jwt

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenIssuer identifies the issuer of the token.
const TokenIssuer = "RESQ-Server"

// ErrWrongTokenType is returned when a refresh token is presented where an access token is required, or vice versa.
var ErrWrongTokenType = errors.New("wrong token type")

// GenerateToken signs payload with HS256, stamping standard claims for the given lifetime.
func GenerateToken(payload *Payload, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		Subject:   strconv.FormatInt(payload.UserID, 10),
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// TokenPair holds a freshly issued access/refresh pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// IssuePair generates an access token and a refresh token for the user.
func IssuePair(userID int64, role, secretKey string, accessTTL, refreshTTL time.Duration) (*TokenPair, error) {
	access, err := GenerateToken(&Payload{UserID: userID, Role: role, TokenType: TypeAccess}, secretKey, accessTTL)
	if err != nil {
		return nil, err
	}

	refresh, err := GenerateToken(&Payload{UserID: userID, Role: role, TokenType: TypeRefresh}, secretKey, refreshTTL)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// ParseToken parses and validates tokenString with secretKey.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.UserID <= 0 {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// ParseTyped parses tokenString and additionally requires the given token type.
func ParseTyped(tokenString, secretKey, tokenType string) (*Payload, error) {
	payload, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return nil, err
	}

	if payload.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}

	return payload, nil
}
