package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Role identifies the scope of a signed-in user. Tokens are minted by the
// external authentication flow; this service only validates and reads them.
type Role string

const (
	RoleProvider   Role = "provider"
	RoleAccountant Role = "accountant"
	RoleAdmin      Role = "admin"
	RoleEmployee   Role = "employee"
)

func (r Role) Valid() bool {
	switch r {
	case RoleProvider, RoleAccountant, RoleAdmin, RoleEmployee:
		return true
	}
	return false
}

// Session is the authenticated caller, threaded explicitly through request
// context instead of being read from ambient storage.
type Session struct {
	UserID string
	Role   Role
}

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrInvalidRole  = errors.New("invalid role in session token")
)

// Parse validates the token signature and extracts the session.
func Parse(tokenString string, secret []byte) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	role := Role(claims.Role)
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	return &Session{UserID: claims.Subject, Role: role}, nil
}

type ctxKey string

const sessionKey ctxKey = "session"

func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}
