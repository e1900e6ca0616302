package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// CourseFilter narrows course listings. Empty fields match everything.
type CourseFilter struct {
	InstitutionID string
	FacultyID     string
	Statuses      []domain.CourseStatus
}

// CourseRepository stores courses.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	List(ctx context.Context, filter CourseFilter) ([]domain.Course, error)
}

type courseRepository struct {
	docs documentRepo[domain.Course]
}

func NewCourseRepository(s store.Store) CourseRepository {
	return &courseRepository{docs: newDocumentRepo[domain.Course](s, store.CollectionCourses)}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	return r.docs.create(ctx, course)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	return r.docs.save(ctx, course.ID, course)
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return r.docs.get(ctx, id)
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]domain.Course, error) {
	var filters []store.Filter
	if filter.InstitutionID != "" {
		filters = append(filters, store.Eq("institutionId", filter.InstitutionID))
	}
	if filter.FacultyID != "" {
		filters = append(filters, store.Eq("facultyId", filter.FacultyID))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		filters = append(filters, store.Where("status", store.OpIn, statuses))
	}
	return r.docs.find(ctx, filters)
}
