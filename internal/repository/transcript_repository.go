package repository

import (
	"context"
	"errors"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

// TranscriptRepository stores one transcript per student.
type TranscriptRepository interface {
	GetByStudent(ctx context.Context, studentID string) (*domain.Transcript, error)
	// Upsert replaces the student's grades, creating the transcript on first use.
	Upsert(ctx context.Context, transcript *domain.Transcript) error
}

type transcriptRepository struct {
	docs documentRepo[domain.Transcript]
}

func NewTranscriptRepository(s store.Store) TranscriptRepository {
	return &transcriptRepository{docs: newDocumentRepo[domain.Transcript](s, store.CollectionTranscripts)}
}

func (r *transcriptRepository) GetByStudent(ctx context.Context, studentID string) (*domain.Transcript, error) {
	if studentID == "" {
		return nil, store.ErrNotFound
	}
	return r.docs.first(ctx, store.Eq("studentId", studentID))
}

func (r *transcriptRepository) Upsert(ctx context.Context, transcript *domain.Transcript) error {
	existing, err := r.GetByStudent(ctx, transcript.StudentID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		err = r.docs.create(ctx, transcript)
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
		// lost a race with a concurrent first upload
		existing, err = r.GetByStudent(ctx, transcript.StudentID)
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}
	return r.docs.save(ctx, existing.ID, transcript)
}
