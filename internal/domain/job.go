package domain

import (
	"strings"
	"time"
)

// JobStatus controls whether a posting accepts applications.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Valid reports whether s is a known job status.
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// Job is a position posted by a company.
type Job struct {
	ID           string     `json:"id,omitempty"`
	CompanyID    string     `json:"companyId"`
	CompanyName  string     `json:"companyName"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Requirements []string   `json:"requirements"`
	Location     string     `json:"location"`
	Salary       string     `json:"salary"`
	JobType      string     `json:"jobType"`
	Status       JobStatus  `json:"status"`
	Deadline     *time.Time `json:"deadline"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// NewJobInput carries job creation data.
type NewJobInput struct {
	CompanyID    string
	CompanyName  string
	Title        string
	Description  string
	Requirements []string
	Location     string
	Salary       string
	JobType      string
	Deadline     *time.Time
}

// NewJob validates and builds an open posting.
func NewJob(in NewJobInput, now time.Time) (*Job, error) {
	errs := fieldErrors{}
	errs.require("companyId", in.CompanyID)
	errs.require("title", in.Title)
	errs.require("description", in.Description)
	if in.Deadline != nil && !in.Deadline.After(now) {
		errs.add("deadline", "must be in the future")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	requirements := make([]string, 0, len(in.Requirements))
	for _, r := range in.Requirements {
		if r = strings.TrimSpace(r); r != "" {
			requirements = append(requirements, r)
		}
	}
	return &Job{
		CompanyID:    in.CompanyID,
		CompanyName:  strings.TrimSpace(in.CompanyName),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Requirements: requirements,
		Location:     strings.TrimSpace(in.Location),
		Salary:       strings.TrimSpace(in.Salary),
		JobType:      strings.TrimSpace(in.JobType),
		Status:       JobStatusOpen,
		Deadline:     in.Deadline,
	}, nil
}

// AcceptsApplications reports whether students may apply at now.
func (j *Job) AcceptsApplications(now time.Time) bool {
	if j.Status != JobStatusOpen {
		return false
	}
	return j.Deadline == nil || now.Before(*j.Deadline)
}
