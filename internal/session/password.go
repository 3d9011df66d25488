package session

import (
	"context"
	"errors"
	"fmt"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 10

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// AdminLookup finds administrator accounts by email.
type AdminLookup interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

// SignIn checks credentials and issues a session.
func (m *Manager) SignIn(ctx context.Context, admins AdminLookup, email, password string) (*Session, error) {
	admin, err := admins.GetAdminByEmail(ctx, email)
	if errors.Is(err, policy.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return m.Issue(admin)
}
