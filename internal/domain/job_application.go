package domain

import (
	"strings"
	"time"
)

// JobApplicationStatus is a company's decision on a candidate.
type JobApplicationStatus string

const (
	JobApplicationPending  JobApplicationStatus = "pending"
	JobApplicationReviewed JobApplicationStatus = "reviewed"
	JobApplicationAccepted JobApplicationStatus = "accepted"
	JobApplicationRejected JobApplicationStatus = "rejected"
)

// Valid reports whether s is a known job application status.
func (s JobApplicationStatus) Valid() bool {
	switch s {
	case JobApplicationPending, JobApplicationReviewed, JobApplicationAccepted, JobApplicationRejected:
		return true
	}
	return false
}

// JobApplication is a student's application to a job posting.
type JobApplication struct {
	ID          string               `json:"id,omitempty"`
	JobID       string               `json:"jobId"`
	CompanyID   string               `json:"companyId"`
	StudentID   string               `json:"studentId"`
	CoverLetter string               `json:"coverLetter"`
	Status      JobApplicationStatus `json:"status"`
	AppliedAt   time.Time            `json:"appliedAt"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// NewJobApplication builds a pending application to job.
func NewJobApplication(studentID string, job *Job, coverLetter string, now time.Time) (*JobApplication, error) {
	errs := fieldErrors{}
	errs.require("studentId", studentID)
	if job == nil || job.ID == "" {
		errs.add("jobId", "is required")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &JobApplication{
		JobID:       job.ID,
		CompanyID:   job.CompanyID,
		StudentID:   studentID,
		CoverLetter: strings.TrimSpace(coverLetter),
		Status:      JobApplicationPending,
		AppliedAt:   now,
	}, nil
}
