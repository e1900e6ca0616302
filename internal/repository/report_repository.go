package repository

import (
	"context"

	"github.com/careerhub/career-api/internal/store"
)

// ReportRepository answers aggregate questions for the admin dashboard.
type ReportRepository interface {
	Count(ctx context.Context, collection string, filters ...store.Filter) (int, error)
}

type reportRepository struct {
	store store.Store
}

func NewReportRepository(s store.Store) ReportRepository {
	return &reportRepository{store: s}
}

func (r *reportRepository) Count(ctx context.Context, collection string, filters ...store.Filter) (int, error) {
	if len(filters) == 0 {
		docs, err := r.store.List(ctx, collection, store.ListOptions{})
		if err != nil {
			return 0, err
		}
		return len(docs), nil
	}
	docs, err := r.store.Query(ctx, collection, filters...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
