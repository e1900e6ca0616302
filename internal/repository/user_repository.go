package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// UserFilter narrows user listings. Empty fields match everything.
type UserFilter struct {
	Role   domain.Role
	Status domain.UserStatus
}

// UserRepository defines persistence access for accounts of every role.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	GetByResetToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

type userRepository struct {
	docs documentRepo[domain.User]
}

// NewUserRepository returns a document-store implementation.
func NewUserRepository(s store.Store) UserRepository {
	return &userRepository{docs: newDocumentRepo[domain.User](s, store.CollectionUsers)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	return r.docs.create(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	return r.docs.save(ctx, user.ID, user)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.docs.get(ctx, id)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.docs.delete(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, store.ErrNotFound
	}
	return r.docs.first(ctx, store.Eq("email", email))
}

func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	return r.docs.first(ctx, store.Eq("verificationToken", token))
}

func (r *userRepository) GetByResetToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, store.ErrNotFound
	}
	return r.docs.first(ctx, store.Eq("resetToken", token))
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]domain.User, error) {
	var filters []store.Filter
	if filter.Role != "" {
		filters = append(filters, store.Eq("role", string(filter.Role)))
	}
	if filter.Status != "" {
		filters = append(filters, store.Eq("status", string(filter.Status)))
	}
	return r.docs.find(ctx, filters)
}
