package service

import (
	"errors"

	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// storeError translates store sentinels into domain errors for resource.
// Other errors pass through and surface as 500s.
func storeError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, store.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", nil)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
