package domain

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/careerhub/career-api/pkg/util"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser(NewUserInput{
		Email:        "  Alice@Example.com ",
		PasswordHash: "hash",
		Name:         "Alice",
		Role:         RoleStudent,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.False(t, user.IsVerified)
}

func TestNewUserDefaultsOrganisationName(t *testing.T) {
	user, err := NewUser(NewUserInput{Email: "hr@acme.io", PasswordHash: "h", Name: "Acme", Role: RoleCompany})
	require.NoError(t, err)
	assert.Equal(t, "Acme", user.CompanyName)
	assert.Equal(t, "Acme", user.DisplayName())
	assert.Empty(t, user.InstitutionName)
}

func TestNewUserListsInvalidFields(t *testing.T) {
	_, err := NewUser(NewUserInput{Email: "not-an-email", Role: "pirate"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Invalid or missing fields: email, name, password, role", de.Message)
	assert.Contains(t, de.Details["errors"], "role")
}

func TestUserTokens(t *testing.T) {
	user := &User{}
	exp := time.Now().Add(time.Hour)

	user.SetVerificationToken("v", exp)
	assert.Equal(t, "v", user.VerificationToken)
	user.MarkVerified()
	assert.True(t, user.IsVerified)
	assert.Empty(t, user.VerificationToken)
	assert.Nil(t, user.VerificationExpires)

	user.SetResetToken("r", exp)
	require.NotNil(t, user.ResetExpires)
	user.ClearResetToken()
	assert.Empty(t, user.ResetToken)
	assert.Nil(t, user.ResetExpires)
}

func TestRoles(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, RoleAdmin.Registrable())
	assert.True(t, RoleInstitution.Registrable())
	assert.False(t, Role("parent").Valid())
}
