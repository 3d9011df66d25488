// Package session issues and validates administrator sessions. A Session is
// an explicit value: it is created on sign-in, passed to every operation that
// needs an identity and invalidated on sign-out or expiry. Nothing reads it
// from ambient storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "denuncia-service"

var (
	ErrInvalidToken       = errors.New("invalid or expired session")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session is an authenticated administrator session.
type Session struct {
	ID          string      `json:"-"`
	Token       string      `json:"token"`
	AdminID     string      `json:"admin_id"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// Actor returns the policy actor for s. A nil session is the anonymous reporter.
func (s *Session) Actor() policy.Actor {
	if s == nil {
		return policy.Anonymous()
	}
	return policy.Administrator(s.DisplayName, s.Email)
}

// IsAdmin reports whether s grants administrator rights.
func (s *Session) IsAdmin() bool {
	return s != nil && (s.Role == models.RoleAdmin || s.Role == models.RoleAnalyst)
}

// Revocations records sessions signed out before expiry.
type Revocations interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

type claims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager owns the session lifecycle.
type Manager struct {
	secret  []byte
	ttl     time.Duration
	revoked Revocations
	now     func() time.Time
}

func NewManager(secret string, ttl time.Duration, revoked Revocations) *Manager {
	return &Manager{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue creates a signed session for admin.
func (m *Manager) Issue(admin *models.Admin) (*Session, error) {
	now := m.now()
	s := &Session{
		ID:          uuid.New().String(),
		AdminID:     admin.ID,
		DisplayName: admin.DisplayName,
		Email:       admin.Email,
		Role:        admin.Role,
		ExpiresAt:   now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:  s.DisplayName,
		Email: s.Email,
		Role:  s.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.ID,
			Subject:   s.AdminID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	s.Token = signed
	return s, nil
}

// Parse validates a bearer token and returns its session.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Session, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsSessionRevoked(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	s := &Session{
		ID:          c.ID,
		Token:       tokenString,
		AdminID:     c.Subject,
		DisplayName: c.Name,
		Email:       c.Email,
		Role:        c.Role,
	}
	if c.ExpiresAt != nil {
		s.ExpiresAt = c.ExpiresAt.Time
	}
	return s, nil
}

// Revoke invalidates s for the rest of its lifetime.
func (m *Manager) Revoke(ctx context.Context, s *Session) error {
	if s == nil || m.revoked == nil {
		return nil
	}
	return m.revoked.RevokeSession(ctx, s.ID, s.ExpiresAt.Sub(m.now()))
}
