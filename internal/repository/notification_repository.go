package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) (*domain.Notification, error)
}

type notificationRepository struct {
	docs documentRepo[domain.Notification]
}

func NewNotificationRepository(s store.Store) NotificationRepository {
	return &notificationRepository{docs: newDocumentRepo[domain.Notification](s, store.CollectionNotifications)}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.docs.create(ctx, n)
}

func (r *notificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	return r.docs.get(ctx, id)
}

// ListByUser returns a user's notifications, newest first.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]domain.Notification, error) {
	filters := []store.Filter{store.Eq("userId", userID)}
	if unreadOnly {
		filters = append(filters, store.Eq("read", false))
	}
	return r.docs.find(ctx, filters)
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) (*domain.Notification, error) {
	return r.docs.patch(ctx, id, store.Document{"read": true})
}
