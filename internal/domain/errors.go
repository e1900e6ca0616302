package domain

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/careerhub/career-api/pkg/util"
)

// fieldErrors collects constructor validation failures keyed by JSON field name.
type fieldErrors map[string]string

func (f fieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		f[field] = "is required"
	}
}

func (f fieldErrors) add(field, msg string) {
	f[field] = msg
}

// err returns a validation DomainError listing every invalid field, or nil.
func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	fields := make([]string, 0, len(f))
	details := make(map[string]any, len(f))
	for field, msg := range f {
		fields = append(fields, field)
		details[field] = msg
	}
	sort.Strings(fields)
	return apperrors.NewValidationError(
		fmt.Sprintf("Invalid or missing fields: %s", strings.Join(fields, ", ")),
		map[string]any{"errors": details},
	)
}
