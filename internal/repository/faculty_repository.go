package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// FacultyRepository stores faculties.
type FacultyRepository interface {
	Create(ctx context.Context, faculty *domain.Faculty) error
	GetByID(ctx context.Context, id string) (*domain.Faculty, error)
	ListByInstitution(ctx context.Context, institutionID string) ([]domain.Faculty, error)
}

type facultyRepository struct {
	docs documentRepo[domain.Faculty]
}

func NewFacultyRepository(s store.Store) FacultyRepository {
	return &facultyRepository{docs: newDocumentRepo[domain.Faculty](s, store.CollectionFaculties)}
}

func (r *facultyRepository) Create(ctx context.Context, faculty *domain.Faculty) error {
	return r.docs.create(ctx, faculty)
}

func (r *facultyRepository) GetByID(ctx context.Context, id string) (*domain.Faculty, error) {
	return r.docs.get(ctx, id)
}

func (r *facultyRepository) ListByInstitution(ctx context.Context, institutionID string) ([]domain.Faculty, error) {
	return r.docs.query(ctx, store.Eq("institutionId", institutionID))
}
