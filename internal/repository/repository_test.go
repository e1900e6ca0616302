package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/store"
)

func newUser(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	user, err := domain.NewUser(domain.NewUserInput{
		Email:        email,
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         role,
	})
	require.NoError(t, err)
	return user
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(store.DefaultIndexes...))

	user := newUser(t, "Alice@Example.com", domain.RoleStudent)
	expires := time.Now().Add(time.Hour).UTC()
	user.SetVerificationToken("tok-1", expires)
	require.NoError(t, repo.Create(ctx, user))
	require.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byToken, err := repo.GetByVerificationToken(ctx, "tok-1")
	require.NoError(t, err)
	require.NotNil(t, byToken.VerificationExpires)
	assert.True(t, expires.Equal(*byToken.VerificationExpires))

	byToken.MarkVerified()
	require.NoError(t, repo.Update(ctx, byToken))

	_, err = repo.GetByVerificationToken(ctx, "tok-1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Empty(t, got.VerificationToken)
	assert.Nil(t, got.VerificationExpires)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(store.DefaultIndexes...))

	require.NoError(t, repo.Create(ctx, newUser(t, "bob@example.com", domain.RoleStudent)))
	err := repo.Create(ctx, newUser(t, "BOB@example.com", domain.RoleCompany))
	assert.ErrorIs(t, err, store.ErrDuplicate)
}

func TestUserRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(store.NewMemoryStore(store.DefaultIndexes...))

	require.NoError(t, repo.Create(ctx, newUser(t, "s1@example.com", domain.RoleStudent)))
	require.NoError(t, repo.Create(ctx, newUser(t, "s2@example.com", domain.RoleStudent)))
	require.NoError(t, repo.Create(ctx, newUser(t, "c1@example.com", domain.RoleCompany)))

	all, err := repo.List(ctx, UserFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	students, err := repo.List(ctx, UserFilter{Role: domain.RoleStudent})
	require.NoError(t, err)
	assert.Len(t, students, 2)

	suspended, err := repo.List(ctx, UserFilter{Status: domain.UserStatusSuspended})
	require.NoError(t, err)
	assert.Empty(t, suspended)
}

func TestTranscriptRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewTranscriptRepository(store.NewMemoryStore(store.DefaultIndexes...))

	_, err := repo.GetByStudent(ctx, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	first, err := domain.NewTranscript("s1", []domain.SubjectGrade{{Subject: "Math", Grade: 70}})
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	second, err := domain.NewTranscript("s1", []domain.SubjectGrade{{Subject: "Math", Grade: 85}, {Subject: "English", Grade: 60}})
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, got.Grades, 2)
	assert.Equal(t, 85.0, got.Grades[0].Grade)
}

func TestApplicationRepositoryFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewApplicationRepository(store.NewMemoryStore(store.DefaultIndexes...))
	now := time.Now().UTC()

	for _, c := range []domain.Course{
		{ID: "c1", InstitutionID: "i1", Status: domain.CourseStatusOpen},
		{ID: "c2", InstitutionID: "i1", Status: domain.CourseStatusWaitlist},
		{ID: "c3", InstitutionID: "i2", Status: domain.CourseStatusOpen},
	} {
		course := c
		app, err := domain.NewApplication("s1", &course, "", now)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, app))
	}

	dup, err := domain.NewApplication("s1", &domain.Course{ID: "c1", InstitutionID: "i1"}, "", now)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), store.ErrDuplicate)

	atI1, err := repo.List(ctx, ApplicationFilter{StudentID: "s1", InstitutionID: "i1"})
	require.NoError(t, err)
	assert.Len(t, atI1, 2)
	assert.Equal(t, "c2", atI1[0].CourseID, "newest first")

	waitlisted, err := repo.List(ctx, ApplicationFilter{Status: domain.ApplicationStatusWaitlist})
	require.NoError(t, err)
	require.Len(t, waitlisted, 1)
	assert.Equal(t, "c2", waitlisted[0].CourseID)
}

func TestNotificationRepositoryMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository(store.NewMemoryStore())

	n, err := domain.NewNotification("u1", domain.NotificationApplicationStatus, "Decision", "You were admitted", "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, n))

	unread, err := repo.ListByUser(ctx, "u1", true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	read, err := repo.MarkRead(ctx, n.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err = repo.ListByUser(ctx, "u1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = repo.MarkRead(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReportRepositoryCount(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	reports := NewReportRepository(s)
	jobs := NewJobRepository(s)

	now := time.Now().UTC()
	for _, title := range []string{"Engineer", "Analyst"} {
		job, err := domain.NewJob(domain.NewJobInput{CompanyID: "co1", Title: title, Description: "d"}, now)
		require.NoError(t, err)
		require.NoError(t, jobs.Create(ctx, job))
	}

	total, err := reports.Count(ctx, store.CollectionJobs)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	closed, err := reports.Count(ctx, store.CollectionJobs, store.Eq("status", string(domain.JobStatusClosed)))
	require.NoError(t, err)
	assert.Zero(t, closed)
}
