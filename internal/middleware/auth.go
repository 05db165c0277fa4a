package middleware

import (
	"strings"

	"github.com/dimitrije/teamup-api/internal/services"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

const (
	UserIDKey   = "user_id"
	UsernameKey = "username"
)

// TokenValidator is the part of services.JWTService the middleware needs.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*services.Claims, error)
}

func Auth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Unauthorized("missing authorization header")
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			c.Unauthorized("invalid authorization header format")
			return
		}

		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			c.Unauthorized("invalid or expired token")
			return
		}

		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid bearer token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(validator TokenValidator) drift.HandlerFunc {
	return func(c *drift.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := validator.ValidateAccessToken(token); err == nil {
				setCaller(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setCaller(c *drift.Context, claims *services.Claims) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(UsernameKey, claims.Username)
}

// GetUserID returns uuid.Nil for anonymous requests.
func GetUserID(c *drift.Context) uuid.UUID {
	if id, ok := c.Get(UserIDKey); ok {
		if uid, ok := id.(uuid.UUID); ok {
			return uid
		}
	}
	return uuid.Nil
}

func GetUsername(c *drift.Context) string {
	if name, ok := c.Get(UsernameKey); ok {
		if n, ok := name.(string); ok {
			return n
		}
	}
	return ""
}
