package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// JobFilter narrows job listings. Empty fields match everything.
type JobFilter struct {
	CompanyID string
	Status    domain.JobStatus
}

// JobRepository stores job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context, filter JobFilter) ([]domain.Job, error)
}

type jobRepository struct {
	docs documentRepo[domain.Job]
}

func NewJobRepository(s store.Store) JobRepository {
	return &jobRepository{docs: newDocumentRepo[domain.Job](s, store.CollectionJobs)}
}

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	return r.docs.create(ctx, job)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	return r.docs.save(ctx, job.ID, job)
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return r.docs.get(ctx, id)
}

func (r *jobRepository) List(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	var filters []store.Filter
	if filter.CompanyID != "" {
		filters = append(filters, store.Eq("companyId", filter.CompanyID))
	}
	if filter.Status != "" {
		filters = append(filters, store.Eq("status", string(filter.Status)))
	}
	return r.docs.find(ctx, filters)
}
