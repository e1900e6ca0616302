package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/domain"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// Authorize admits callers whose role is one of allowed. It must run after
// AuthMiddleware.Handle.
func Authorize(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Authentication required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("Access denied. Insufficient permissions.")
		}
		return c.Next()
	}
}
