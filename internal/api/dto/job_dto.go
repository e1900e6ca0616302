package dto

import (
	"time"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
)

// CreateJobRequest posts a job.
type CreateJobRequest struct {
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description" validate:"required"`
	Requirements []string   `json:"requirements"`
	Location     string     `json:"location"`
	Salary       string     `json:"salary"`
	JobType      string     `json:"jobType"`
	Deadline     *time.Time `json:"deadline"`
}

// UpdateJobRequest holds optional posting fields.
type UpdateJobRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1"`
	Description  *string    `json:"description" validate:"omitempty,min=1"`
	Requirements []string   `json:"requirements"`
	Location     *string    `json:"location"`
	Salary       *string    `json:"salary"`
	JobType      *string    `json:"jobType"`
	Deadline     *time.Time `json:"deadline"`
}

// JobStatusRequest opens or closes a posting.
type JobStatusRequest struct {
	Status string `json:"status" validate:"required,job_status"`
}

// JobApplyRequest submits a job application.
type JobApplyRequest struct {
	JobID       string `json:"jobId" validate:"required"`
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

// JobApplicationStatusRequest records a decision on an applicant.
type JobApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,job_application_status"`
}

// Input converts the request into creation data.
func (r CreateJobRequest) Input() domain.NewJobInput {
	return domain.NewJobInput{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		Salary:       r.Salary,
		JobType:      r.JobType,
		Deadline:     r.Deadline,
	}
}

// Update converts the request into posting changes.
func (r UpdateJobRequest) Update() service.JobUpdate {
	return service.JobUpdate{
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		Salary:       r.Salary,
		JobType:      r.JobType,
		Deadline:     r.Deadline,
	}
}

func NewJobList(items []domain.Job) List[domain.Job] {
	for i := range items {
		if items[i].Requirements == nil {
			items[i].Requirements = []string{}
		}
	}
	return NewList(items)
}

// ApplicantResponse is a job application with its student.
type ApplicantResponse struct {
	domain.JobApplication
	Student *UserResponse `json:"student,omitempty"`
}

func NewApplicantList(items []service.Applicant) List[ApplicantResponse] {
	return NewList(mapSlice(items, func(a *service.Applicant) ApplicantResponse {
		out := ApplicantResponse{JobApplication: a.Application}
		if a.Student != nil {
			u := NewUserResponse(a.Student)
			out.Student = &u
		}
		return out
	}))
}

// StudentJobApplicationResponse is a job application with its posting.
type StudentJobApplicationResponse struct {
	domain.JobApplication
	Job *domain.Job `json:"job,omitempty"`
}

func NewStudentJobApplicationList(items []service.StudentApplication) List[StudentJobApplicationResponse] {
	return NewList(mapSlice(items, func(a *service.StudentApplication) StudentJobApplicationResponse {
		return StudentJobApplicationResponse{JobApplication: a.Application, Job: a.Job}
	}))
}

// CompanyProfileResponse is a company account with posting statistics.
type CompanyProfileResponse struct {
	User              UserResponse `json:"user"`
	TotalJobs         int          `json:"totalJobs"`
	OpenJobs          int          `json:"openJobs"`
	TotalApplications int          `json:"totalApplications"`
}

func NewCompanyProfileResponse(p *service.CompanyProfile) CompanyProfileResponse {
	return CompanyProfileResponse{
		User:              NewUserResponse(p.User),
		TotalJobs:         p.TotalJobs,
		OpenJobs:          p.OpenJobs,
		TotalApplications: p.TotalApplications,
	}
}
