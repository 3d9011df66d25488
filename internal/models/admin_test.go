package models_test

import (
	"reflect"
	"testing"

	"denuncia/backend/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// TestAdminBeforeCreate_GeneratesUUID verifies that the BeforeCreate hook generates a valid UUID.
func TestAdminBeforeCreate_GeneratesUUID(t *testing.T) {
	admin := &models.Admin{
		Email:       "ouvidoria@example.org",
		DisplayName: "Maria Souza",
	}

	assert.Empty(t, admin.ID, "Admin ID should be empty before BeforeCreate")

	err := admin.BeforeCreate(nil) // nil *gorm.DB is acceptable for this hook

	assert.NoError(t, err)
	assert.NotEmpty(t, admin.ID)
	parsed, parseErr := uuid.Parse(admin.ID)
	assert.NoError(t, parseErr, "Admin ID must be a valid UUID string")
	assert.NotEqual(t, uuid.Nil, parsed)
	assert.Equal(t, models.RoleAdmin, admin.Role, "Role defaults to admin")
}

// TestAdminBeforeCreate_PreservesExistingID verifies that the hook doesn't overwrite an existing ID.
func TestAdminBeforeCreate_PreservesExistingID(t *testing.T) {
	existingID := uuid.New().String()
	admin := &models.Admin{ID: existingID, Role: models.RoleAnalyst}

	err := admin.BeforeCreate(nil)

	assert.NoError(t, err)
	assert.Equal(t, existingID, admin.ID)
	assert.Equal(t, models.RoleAnalyst, admin.Role)
}

func TestCaseBeforeCreate_TokenAndInitialStatus(t *testing.T) {
	cases := []*models.Case{
		{Category: models.CategoryFraud, Description: "a"},
		{Category: models.CategorySafety, Description: "b"},
		{Category: models.CategoryOther, Description: "c"},
	}

	tokens := make(map[string]bool)
	for _, c := range cases {
		assert.NoError(t, c.BeforeCreate(nil))
		assert.Equal(t, models.StatusReceived, c.Status)

		_, err := uuid.Parse(c.Token)
		assert.NoError(t, err)
		assert.NotContains(t, tokens, c.Token, "Each case should have a unique token")
		tokens[c.Token] = true
	}
}

func TestCaseBeforeCreate_PreservesStatus(t *testing.T) {
	c := &models.Case{Token: "fixed", Status: models.StatusUnderReview}

	assert.NoError(t, c.BeforeCreate(nil))
	assert.Equal(t, "fixed", c.Token)
	assert.Equal(t, models.StatusUnderReview, c.Status)
}

// TestCaseStructTags guards the columns that access control depends on.
func TestCaseStructTags(t *testing.T) {
	caseType := reflect.TypeOf(models.Case{})

	tokenField, found := caseType.FieldByName("Token")
	assert.True(t, found)
	assert.Contains(t, tokenField.Tag.Get("gorm"), "uniqueIndex")
	assert.Equal(t, "-", tokenField.Tag.Get("json"), "Token must never be serialized")

	evidenceField, found := caseType.FieldByName("Evidence")
	assert.True(t, found)
	assert.Contains(t, evidenceField.Tag.Get("gorm"), "type:text[]")

	msgField, found := reflect.TypeOf(models.Message{}).FieldByName("CaseID")
	assert.True(t, found)
	assert.Equal(t, "-", msgField.Tag.Get("json"), "Transcript must not leak the numeric case id")
}

func TestCaseForToken_OmitsIdentifiers(t *testing.T) {
	c := &models.Case{
		ID:       42,
		Token:    "secret",
		Status:   models.StatusAwaitingInfo,
		Category: models.CategoryHarassment,
		Evidence: pq.StringArray{"evidence/1.pdf"},
	}

	view := c.ForToken()

	assert.Equal(t, models.StatusAwaitingInfo, view.Status)
	assert.Equal(t, models.CategoryHarassment, view.Category)
	_, hasID := reflect.TypeOf(view).FieldByName("ID")
	assert.False(t, hasID)
}

func TestStatusHelpers(t *testing.T) {
	tests := []struct {
		status   models.Status
		valid    bool
		terminal bool
	}{
		{models.StatusReceived, true, false},
		{models.StatusUnderReview, true, false},
		{models.StatusAwaitingInfo, true, false},
		{models.StatusResolved, true, true},
		{models.StatusRejected, true, true},
		{models.Status("ARCHIVED"), false, false},
		{models.Status(""), false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestCategoryValid(t *testing.T) {
	assert.True(t, models.CategoryCorruption.Valid())
	assert.False(t, models.Category("SPAM").Valid())
}
