package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"denuncia/backend/internal/models"
	"denuncia/backend/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAdmins map[string]*models.Admin

func (m memAdmins) CreateAdmin(_ context.Context, a *models.Admin) error {
	_ = a.BeforeCreate(nil)
	m[a.Email] = a
	return nil
}

func (m memAdmins) GetAdminByEmail(_ context.Context, email string) (*models.Admin, error) {
	if a, ok := m[email]; ok {
		return a, nil
	}
	return nil, policy.ErrNotFound
}

func TestCreateAdmin(t *testing.T) {
	ctx := context.Background()
	admins := memAdmins{}

	a, err := createAdmin(ctx, admins, " Maria@Example.org ", "Maria Souza", models.RoleAdmin, "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, "maria@example.org", a.Email)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, "correct horse battery", a.PasswordHash)

	_, err = createAdmin(ctx, admins, "maria@example.org", "Maria", models.RoleAdmin, "correct horse battery")
	assert.ErrorContains(t, err, "already exists")

	_, err = createAdmin(ctx, admins, "joao@example.org", "João", models.Role("root"), "correct horse battery")
	assert.Error(t, err)

	_, err = createAdmin(ctx, admins, "joao@example.org", "João", models.RoleAnalyst, "short")
	assert.Error(t, err)

	_, err = createAdmin(ctx, admins, "not-an-email", "João", models.RoleAnalyst, "correct horse battery")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteCases(t *testing.T) {
	var buf bytes.Buffer
	writeCases(&buf, []models.Case{{
		ID: 7, Status: models.StatusUnderReview, Category: models.CategoryFraud, Anonymous: true,
		CreatedAt: time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC),
	}})
	assert.Contains(t, buf.String(), "UNDER_REVIEW")
	assert.Contains(t, buf.String(), "2025-04-01 09:30")
}
