// Package middleware holds the gin middleware shared by the API routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"denuncia/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// SessionKey is the gin context key holding the *session.Session.
const SessionKey = "session"

// SessionParser validates a bearer token.
type SessionParser interface {
	Parse(ctx context.Context, token string) (*session.Session, error)
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// Auth requires a valid administrator session.
func Auth(p SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abort(c, http.StatusUnauthorized, "unauthorized", "Authorization header required")
			return
		}
		if !attach(c, p, header) {
			return
		}
		c.Next()
	}
}

// OptionalAuth attaches a session when an Authorization header is present.
// Requests without one continue as the anonymous reporter; a present but
// invalid token is still rejected.
func OptionalAuth(p SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" && !attach(c, p, header) {
			return
		}
		c.Next()
	}
}

func attach(c *gin.Context, p SessionParser, header string) bool {
	token, ok := BearerToken(header)
	if !ok {
		abort(c, http.StatusUnauthorized, "unauthorized", "Invalid authorization header format")
		return false
	}
	sess, err := p.Parse(c.Request.Context(), token)
	if err != nil {
		abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
		return false
	}
	c.Set(SessionKey, sess)
	return true
}

// AdminOnly rejects requests without an administrator session.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).IsAdmin() {
			abort(c, http.StatusForbidden, "forbidden", "administrator access required")
			return
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by Auth or OptionalAuth, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": code, "message": message})
}
