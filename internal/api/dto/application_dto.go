package dto

import (
	"time"

	"github.com/careerhub/career-api/internal/domain"
)

// ApplyCourseRequest submits a course application.
type ApplyCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// UpdateStatusRequest carries a new status value and optional notes.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,application_status"`
	Notes  string `json:"notes"`
}

// ApplicationResponse course application view.
type ApplicationResponse struct {
	ID            string                   `json:"id"`
	StudentID     string                   `json:"studentId"`
	CourseID      string                   `json:"courseId"`
	InstitutionID string                   `json:"institutionId"`
	Status        domain.ApplicationStatus `json:"status"`
	Notes         string                   `json:"notes,omitempty"`
	AppliedAt     time.Time                `json:"appliedAt"`
	DecidedAt     *time.Time               `json:"decidedAt,omitempty"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

func NewApplicationResponse(a *domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:            a.ID,
		StudentID:     a.StudentID,
		CourseID:      a.CourseID,
		InstitutionID: a.InstitutionID,
		Status:        a.Status,
		Notes:         a.Notes,
		AppliedAt:     a.AppliedAt,
		DecidedAt:     a.DecidedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func NewApplicationList(items []domain.Application) List[ApplicationResponse] {
	return NewList(mapSlice(items, NewApplicationResponse))
}
