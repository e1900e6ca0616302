package domain

import (
	"strings"
	"time"
)

// ApplicationStatus is the admission decision on a course application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAdmitted ApplicationStatus = "admitted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
	ApplicationStatusWaitlist ApplicationStatus = "waitlist"
)

// MaxApplicationsPerInstitution caps how many courses a student may apply
// to at a single institution.
const MaxApplicationsPerInstitution = 2

// ParseApplicationStatus accepts the canonical values plus "approved" as an
// alias of admitted.
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	status := ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case ApplicationStatusPending, ApplicationStatusAdmitted, ApplicationStatusRejected, ApplicationStatusWaitlist:
		return status, true
	case "approved":
		return ApplicationStatusAdmitted, true
	}
	return "", false
}

// Application is a student's request for admission to a course.
type Application struct {
	ID            string            `json:"id,omitempty"`
	StudentID     string            `json:"studentId"`
	CourseID      string            `json:"courseId"`
	InstitutionID string            `json:"institutionId"`
	Status        ApplicationStatus `json:"status"`
	Notes         string            `json:"notes"`
	AppliedAt     time.Time         `json:"appliedAt"`
	DecidedAt     *time.Time        `json:"decidedAt"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NewApplication builds an application for course. Waitlisted courses
// produce waitlisted applications.
func NewApplication(studentID string, course *Course, notes string, now time.Time) (*Application, error) {
	errs := fieldErrors{}
	errs.require("studentId", studentID)
	if course == nil || course.ID == "" {
		errs.add("courseId", "is required")
	} else if course.InstitutionID == "" {
		errs.add("institutionId", "is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	status := ApplicationStatusPending
	if course.Status == CourseStatusWaitlist {
		status = ApplicationStatusWaitlist
	}
	return &Application{
		StudentID:     studentID,
		CourseID:      course.ID,
		InstitutionID: course.InstitutionID,
		Status:        status,
		Notes:         strings.TrimSpace(notes),
		AppliedAt:     now,
	}, nil
}

// Decide records an admission decision.
func (a *Application) Decide(status ApplicationStatus, now time.Time) {
	a.Status = status
	if status == ApplicationStatusPending {
		a.DecidedAt = nil
		return
	}
	a.DecidedAt = &now
}
