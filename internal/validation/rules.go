package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/careerhub/career-api/internal/domain"
)

func registerRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", tag, err))
		}
	}

	mustRegister("registrable_role", stringRule(func(s string) bool { return domain.Role(s).Registrable() }))
	mustRegister("user_status", stringRule(func(s string) bool { return domain.UserStatus(s).Valid() }))
	mustRegister("institution_status", stringRule(func(s string) bool { return domain.InstitutionStatus(s).Valid() }))
	mustRegister("course_status", stringRule(func(s string) bool { return domain.CourseStatus(s).Valid() }))
	mustRegister("job_status", stringRule(func(s string) bool { return domain.JobStatus(s).Valid() }))
	mustRegister("application_status", stringRule(func(s string) bool {
		_, ok := domain.ParseApplicationStatus(s)
		return ok
	}))
	mustRegister("job_application_status", stringRule(func(s string) bool { return domain.JobApplicationStatus(s).Valid() }))
}

// stringRule adapts a predicate to a validator.Func. Values are trimmed and
// lowercased first, as the handlers do before converting them. Empty values
// pass; combine with "required" to reject them.
func stringRule(valid func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		if value == "" {
			return true
		}
		return valid(value)
	}
}
