package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// InstitutionRepository stores institution records.
type InstitutionRepository interface {
	Create(ctx context.Context, institution *domain.Institution) error
	Update(ctx context.Context, institution *domain.Institution) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Institution, error)
	GetByEmail(ctx context.Context, email string) (*domain.Institution, error)
	List(ctx context.Context, status domain.InstitutionStatus) ([]domain.Institution, error)
}

type institutionRepository struct {
	docs documentRepo[domain.Institution]
}

// NewInstitutionRepository returns a document-store implementation.
func NewInstitutionRepository(s store.Store) InstitutionRepository {
	return &institutionRepository{docs: newDocumentRepo[domain.Institution](s, store.CollectionInstitutions)}
}

func (r *institutionRepository) Create(ctx context.Context, institution *domain.Institution) error {
	institution.Email = domain.NormalizeEmail(institution.Email)
	return r.docs.create(ctx, institution)
}

func (r *institutionRepository) Update(ctx context.Context, institution *domain.Institution) error {
	institution.Email = domain.NormalizeEmail(institution.Email)
	return r.docs.save(ctx, institution.ID, institution)
}

func (r *institutionRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *institutionRepository) GetByID(ctx context.Context, id string) (*domain.Institution, error) {
	return r.docs.get(ctx, id)
}

func (r *institutionRepository) GetByEmail(ctx context.Context, email string) (*domain.Institution, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, store.ErrNotFound
	}
	return r.docs.first(ctx, store.Eq("email", email))
}

// List returns institutions with status, or all of them when status is empty.
func (r *institutionRepository) List(ctx context.Context, status domain.InstitutionStatus) ([]domain.Institution, error) {
	var filters []store.Filter
	if status != "" {
		filters = append(filters, store.Eq("status", string(status)))
	}
	return r.docs.find(ctx, filters)
}
