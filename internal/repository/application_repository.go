package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// ApplicationFilter narrows course application listings.
type ApplicationFilter struct {
	StudentID     string
	InstitutionID string
	CourseID      string
	Status        domain.ApplicationStatus
}

// ApplicationRepository stores course applications.
type ApplicationRepository interface {
	Create(ctx context.Context, app *domain.Application) error
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
}

type applicationRepository struct {
	docs documentRepo[domain.Application]
}

func NewApplicationRepository(s store.Store) ApplicationRepository {
	return &applicationRepository{docs: newDocumentRepo[domain.Application](s, store.CollectionApplications)}
}

func (r *applicationRepository) Create(ctx context.Context, app *domain.Application) error {
	return r.docs.create(ctx, app)
}

func (r *applicationRepository) Update(ctx context.Context, app *domain.Application) error {
	return r.docs.save(ctx, app.ID, app)
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	return r.docs.get(ctx, id)
}

// List returns matching applications, newest first.
func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	var filters []store.Filter
	if filter.StudentID != "" {
		filters = append(filters, store.Eq("studentId", filter.StudentID))
	}
	if filter.InstitutionID != "" {
		filters = append(filters, store.Eq("institutionId", filter.InstitutionID))
	}
	if filter.CourseID != "" {
		filters = append(filters, store.Eq("courseId", filter.CourseID))
	}
	if filter.Status != "" {
		filters = append(filters, store.Eq("status", string(filter.Status)))
	}
	return r.docs.find(ctx, filters)
}
