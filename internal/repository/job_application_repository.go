package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// JobApplicationFilter narrows job application listings.
type JobApplicationFilter struct {
	JobID     string
	CompanyID string
	StudentID string
	Status    domain.JobApplicationStatus
}

// JobApplicationRepository stores applications to job postings.
type JobApplicationRepository interface {
	Create(ctx context.Context, app *domain.JobApplication) error
	Update(ctx context.Context, app *domain.JobApplication) error
	GetByID(ctx context.Context, id string) (*domain.JobApplication, error)
	List(ctx context.Context, filter JobApplicationFilter) ([]domain.JobApplication, error)
}

type jobApplicationRepository struct {
	docs documentRepo[domain.JobApplication]
}

func NewJobApplicationRepository(s store.Store) JobApplicationRepository {
	return &jobApplicationRepository{docs: newDocumentRepo[domain.JobApplication](s, store.CollectionJobApplications)}
}

func (r *jobApplicationRepository) Create(ctx context.Context, app *domain.JobApplication) error {
	return r.docs.create(ctx, app)
}

func (r *jobApplicationRepository) Update(ctx context.Context, app *domain.JobApplication) error {
	return r.docs.save(ctx, app.ID, app)
}

func (r *jobApplicationRepository) GetByID(ctx context.Context, id string) (*domain.JobApplication, error) {
	return r.docs.get(ctx, id)
}

func (r *jobApplicationRepository) List(ctx context.Context, filter JobApplicationFilter) ([]domain.JobApplication, error) {
	var filters []store.Filter
	if filter.JobID != "" {
		filters = append(filters, store.Eq("jobId", filter.JobID))
	}
	if filter.CompanyID != "" {
		filters = append(filters, store.Eq("companyId", filter.CompanyID))
	}
	if filter.StudentID != "" {
		filters = append(filters, store.Eq("studentId", filter.StudentID))
	}
	if filter.Status != "" {
		filters = append(filters, store.Eq("status", string(filter.Status)))
	}
	return r.docs.find(ctx, filters)
}
