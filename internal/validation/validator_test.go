package validation

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/careerhub/career-api/pkg/util"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,registrable_role"`
}

type courseRequest struct {
	Name         string `json:"name" validate:"required"`
	Requirements struct {
		MinimumGrade float64 `json:"minimumGrade" validate:"gte=0,lte=100"`
	} `json:"requirements"`
}

func TestValidateListsEveryField(t *testing.T) {
	v := New()

	err := v.Validate(&registerRequest{Email: "bad", Password: "123", Role: "admin"})
	require.Error(t, err)

	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "Invalid or missing fields: email, name, password, role", de.Message)

	details, ok := de.Details["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be one of: student, institution, company", details["role"])
}

func TestValidatePasses(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&registerRequest{
		Email:    "alice@example.com",
		Password: "secret1",
		Name:     "Alice",
		Role:     "student",
	}))
}

func TestValidateNestedFieldPath(t *testing.T) {
	v := New()
	req := courseRequest{Name: "CS"}
	req.Requirements.MinimumGrade = 120

	err := v.Validate(&req)
	require.Error(t, err)
	assert.Equal(t, "Invalid or missing fields: requirements.minimumGrade", apperrors.ToDomainError(err).Message)
}

type statusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
	Role   string `json:"role" validate:"omitempty,registrable_role"`
	User   string `json:"user" validate:"omitempty,user_status"`
}

func TestEnumRulesIgnoreCaseAndSpace(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(&statusRequest{Status: " Admitted ", Role: "Student", User: "SUSPENDED"}))
	assert.NoError(t, v.Validate(&statusRequest{Status: "approved"}))

	err := v.Validate(&statusRequest{Status: "enrolled"})
	require.Error(t, err)
	details, ok := apperrors.ToDomainError(err).Details["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "status")
}
