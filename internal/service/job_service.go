package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/events"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// JobStatusAll lists postings of every status.
const JobStatusAll = "all"

// JobService manages company postings and student job applications.
type JobService struct {
	jobs         repository.JobRepository
	applications repository.JobApplicationRepository
	users        repository.UserRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	students     *keyedMutex
	now          func() time.Time
}

// JobDependencies bundles collaborators for the job service.
type JobDependencies struct {
	JobRepo            repository.JobRepository
	JobApplicationRepo repository.JobApplicationRepository
	UserRepo           repository.UserRepository
	Dispatcher         events.Dispatcher
	Logger             *zap.Logger
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobService{
		jobs:         deps.JobRepo,
		applications: deps.JobApplicationRepo,
		users:        deps.UserRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		students:     newKeyedMutex(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create posts a job for company.
func (s *JobService) Create(ctx context.Context, company *domain.User, in domain.NewJobInput) (*domain.Job, error) {
	in.CompanyID = company.ID
	in.CompanyName = company.DisplayName()
	job, err := domain.NewJob(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	s.logger.Info("job posted", zap.String("job_id", job.ID), zap.String("company_id", company.ID))
	return job, nil
}

// JobQuery filters public job listings. Status defaults to open; use
// JobStatusAll for every status.
type JobQuery struct {
	CompanyID string
	Status    string
}

// List returns postings matching q, newest first.
func (s *JobService) List(ctx context.Context, q JobQuery) ([]domain.Job, error) {
	filter := repository.JobFilter{CompanyID: strings.TrimSpace(q.CompanyID)}
	switch status := strings.ToLower(strings.TrimSpace(q.Status)); status {
	case "":
		filter.Status = domain.JobStatusOpen
	case JobStatusAll:
	default:
		if !domain.JobStatus(status).Valid() {
			return nil, apperrors.NewValidationError("Invalid or missing fields: status",
				map[string]any{"errors": map[string]any{"status": "must be one of: open, closed, all"}})
		}
		filter.Status = domain.JobStatus(status)
	}
	return s.jobs.List(ctx, filter)
}

// ListForCompany returns every posting of company.
func (s *JobService) ListForCompany(ctx context.Context, companyID string) ([]domain.Job, error) {
	return s.jobs.List(ctx, repository.JobFilter{CompanyID: companyID})
}

// Get returns a posting.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	return job, storeError(err, "Job")
}

func (s *JobService) owned(ctx context.Context, company *domain.User, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job")
	}
	if job.CompanyID != company.ID {
		return nil, apperrors.NewNotFound("Job", nil)
	}
	return job, nil
}

// JobUpdate holds optional posting changes.
type JobUpdate struct {
	Title        *string
	Description  *string
	Requirements []string
	Location     *string
	Salary       *string
	JobType      *string
	Deadline     *time.Time
}

// Update edits one of company's postings.
func (s *JobService) Update(ctx context.Context, company *domain.User, id string, in JobUpdate) (*domain.Job, error) {
	job, err := s.owned(ctx, company, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		job.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil && strings.TrimSpace(*in.Description) != "" {
		job.Description = strings.TrimSpace(*in.Description)
	}
	if in.Requirements != nil {
		job.Requirements = in.Requirements
	}
	setTrimmed(&job.Location, in.Location)
	setTrimmed(&job.Salary, in.Salary)
	setTrimmed(&job.JobType, in.JobType)
	if in.Deadline != nil {
		if !in.Deadline.After(s.now()) {
			return nil, apperrors.NewValidationError("Invalid or missing fields: deadline",
				map[string]any{"errors": map[string]any{"deadline": "must be in the future"}})
		}
		job.Deadline = in.Deadline
	}
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, storeError(err, "Job")
	}
	return job, nil
}

// UpdateStatus opens or closes one of company's postings.
func (s *JobService) UpdateStatus(ctx context.Context, company *domain.User, id string, status domain.JobStatus) (*domain.Job, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid or missing fields: status",
			map[string]any{"errors": map[string]any{"status": "must be one of: open, closed"}})
	}
	job, err := s.owned(ctx, company, id)
	if err != nil {
		return nil, err
	}
	job.Status = status
	if err := s.jobs.Update(ctx, job); err != nil {
		return nil, storeError(err, "Job")
	}
	s.logger.Info("job status changed", zap.String("job_id", job.ID), zap.String("status", string(status)))
	return job, nil
}

// Apply submits a student's application to an open posting. A student may
// apply to each posting once.
func (s *JobService) Apply(ctx context.Context, student *domain.User, jobID, coverLetter string) (*domain.JobApplication, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, storeError(err, "Job")
	}
	if !job.AcceptsApplications(s.now()) {
		return nil, apperrors.NewBadRequest("This job is no longer accepting applications")
	}

	unlock := s.students.Lock(student.ID)
	defer unlock()

	existing, err := s.applications.List(ctx, repository.JobApplicationFilter{StudentID: student.ID, JobID: job.ID})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apperrors.NewConflict("You have already applied to this job", nil)
	}

	app, err := domain.NewJobApplication(student.ID, job, coverLetter, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflict("You have already applied to this job", nil)
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.New(events.EventJobApplicationSubmitted, student.ID,
		events.JobApplicationSubmittedPayload{
			JobApplicationID: app.ID,
			JobID:            job.ID,
			JobTitle:         job.Title,
			CompanyID:        job.CompanyID,
			StudentID:        student.ID,
			StudentName:      student.Name,
		}))
	return app, nil
}

// Applicant pairs a job application with the applying student.
type Applicant struct {
	Application domain.JobApplication
	Student     *domain.User
}

// Applicants lists applications to one of company's postings.
func (s *JobService) Applicants(ctx context.Context, company *domain.User, jobID string) ([]Applicant, error) {
	job, err := s.owned(ctx, company, jobID)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.List(ctx, repository.JobApplicationFilter{JobID: job.ID})
	if err != nil {
		return nil, err
	}
	out := make([]Applicant, 0, len(apps))
	for _, app := range apps {
		applicant := Applicant{Application: app}
		student, err := s.users.GetByID(ctx, app.StudentID)
		switch {
		case err == nil:
			applicant.Student = student
		case !isNotFound(err):
			return nil, err
		}
		out = append(out, applicant)
	}
	return out, nil
}

// StudentApplication pairs a job application with its posting.
type StudentApplication struct {
	Application domain.JobApplication
	Job         *domain.Job
}

// ListForStudent returns a student's job applications with their postings.
func (s *JobService) ListForStudent(ctx context.Context, studentID string) ([]StudentApplication, error) {
	apps, err := s.applications.List(ctx, repository.JobApplicationFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	out := make([]StudentApplication, 0, len(apps))
	for _, app := range apps {
		item := StudentApplication{Application: app}
		job, err := s.jobs.GetByID(ctx, app.JobID)
		switch {
		case err == nil:
			item.Job = job
		case !isNotFound(err):
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdateApplicationStatus records company's decision on an applicant.
func (s *JobService) UpdateApplicationStatus(ctx context.Context, company *domain.User, id string, status domain.JobApplicationStatus) (*domain.JobApplication, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("Invalid or missing fields: status",
			map[string]any{"errors": map[string]any{"status": "must be one of: pending, reviewed, accepted, rejected"}})
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Job application")
	}
	if app.CompanyID != company.ID {
		return nil, apperrors.NewNotFound("Job application", nil)
	}

	oldStatus := app.Status
	app.Status = status
	if err := s.applications.Update(ctx, app); err != nil {
		return nil, storeError(err, "Job application")
	}

	if oldStatus != status {
		title := ""
		if job, err := s.jobs.GetByID(ctx, app.JobID); err == nil {
			title = job.Title
		}
		publish(ctx, s.dispatcher, s.logger, events.New(events.EventJobApplicationStatusChanged, company.ID,
			events.JobApplicationStatusChangedPayload{
				JobApplicationID: app.ID,
				JobTitle:         title,
				CompanyName:      company.DisplayName(),
				StudentID:        app.StudentID,
				OldStatus:        oldStatus,
				NewStatus:        status,
			}))
	}
	return app, nil
}
