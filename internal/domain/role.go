package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Role is the account type of a user.
type Role string

const (
	RoleStudent     Role = "student"
	RoleInstitution Role = "institution"
	RoleCompany     Role = "company"
	RoleAdmin       Role = "admin"
)

// RegistrableRoles are the roles a visitor may sign up with. Admins are seeded.
var RegistrableRoles = []Role{RoleStudent, RoleInstitution, RoleCompany}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstitution, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

// Registrable reports whether r may be chosen at registration.
func (r Role) Registrable() bool {
	for _, role := range RegistrableRoles {
		if r == role {
			return true
		}
	}
	return false
}

var fieldValidator = validator.New()

// ValidEmail reports whether s is a syntactically valid email address.
func ValidEmail(s string) bool {
	return fieldValidator.Var(s, "required,email") == nil
}

// NormalizeEmail lowercases and trims an email address for storage and lookup.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
