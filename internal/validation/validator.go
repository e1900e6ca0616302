// Package validation checks request DTOs with go-playground/validator and
// reports failures as validation DomainErrors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/careerhub/career-api/pkg/util"
)

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that names fields by their json tag and knows the
// domain enum rules.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerRules(v)
	return &Validator{validate: v}
}

// Validate checks i and returns a DomainError listing every invalid field.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperrors.NewInternalError(err)
	}

	details := make(map[string]any, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := fieldPath(fe)
		if _, seen := details[field]; seen {
			continue
		}
		details[field] = message(fe)
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return apperrors.NewValidationError(
		fmt.Sprintf("Invalid or missing fields: %s", strings.Join(fields, ", ")),
		map[string]any{"errors": details},
	)
}

// fieldPath drops the top-level struct name from the namespace so nested
// fields read as "requirements.minimumGrade".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters long", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters long", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "must be a valid URL"
	case "registrable_role":
		return "must be one of: student, institution, company"
	case "user_status", "institution_status":
		return "must be one of: active, suspended, pending"
	case "course_status":
		return "must be one of: open, closed, waitlist"
	case "job_status":
		return "must be one of: open, closed"
	case "application_status":
		return "must be one of: pending, admitted, rejected, waitlist"
	case "job_application_status":
		return "must be one of: pending, reviewed, accepted, rejected"
	}
	return fmt.Sprintf("failed on the '%s' rule", fe.Tag())
}
