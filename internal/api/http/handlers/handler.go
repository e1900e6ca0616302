package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/auth"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/validation"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// bind decodes the request body into dst and validates it.
func bind(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperrors.NewBadRequest("Invalid request body")
	}
	return v.Validate(dst)
}

// caller returns the authenticated user set by the auth middleware.
func caller(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("Authentication required")
	}
	return principal.User, nil
}
