package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/config"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/events"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

type fixture struct {
	users         repository.UserRepository
	institutions  repository.InstitutionRepository
	faculties     repository.FacultyRepository
	courses       repository.CourseRepository
	applications  repository.ApplicationRepository
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
}

func newFixture() *fixture {
	s := store.NewMemoryStore(store.DefaultIndexes...)
	return &fixture{
		users:         repository.NewUserRepository(s),
		institutions:  repository.NewInstitutionRepository(s),
		faculties:     repository.NewFacultyRepository(s),
		courses:       repository.NewCourseRepository(s),
		applications:  repository.NewApplicationRepository(s),
		notifications: repository.NewNotificationRepository(s),
		dispatcher:    events.NewInMemoryDispatcher(),
	}
}

func (f *fixture) applicationService() *ApplicationService {
	return NewApplicationService(ApplicationDependencies{
		ApplicationRepo: f.applications,
		CourseRepo:      f.courses,
		InstitutionRepo: f.institutions,
		Dispatcher:      f.dispatcher,
		Logger:          zap.NewNop(),
	})
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) *domain.User {
	t.Helper()
	u, err := domain.NewUser(domain.NewUserInput{Email: email, PasswordHash: "hash", Name: "Test", Role: role})
	require.NoError(t, err)
	u.MarkVerified()
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) institution(t *testing.T, owner *domain.User) *domain.Institution {
	t.Helper()
	ctx := context.Background()
	inst, err := domain.NewInstitution("Test University", owner.Email)
	require.NoError(t, err)
	inst.OwnerID = owner.ID
	inst.SetStatus(domain.InstitutionStatusActive)
	require.NoError(t, f.institutions.Create(ctx, inst))
	owner.InstitutionID = inst.ID
	require.NoError(t, f.users.Update(ctx, owner))
	return inst
}

func (f *fixture) course(t *testing.T, inst *domain.Institution, name string, seats int) *domain.Course {
	t.Helper()
	c, err := domain.NewCourse(domain.NewCourseInput{InstitutionID: inst.ID, Name: name, Seats: seats})
	require.NoError(t, err)
	require.NoError(t, f.courses.Create(context.Background(), c))
	return c
}

func TestApplyEnforcesInstitutionLimitUnderConcurrency(t *testing.T) {
	f := newFixture()
	svc := f.applicationService()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)

	courses := make([]*domain.Course, 5)
	for i := range courses {
		courses[i] = f.course(t, inst, "Course "+string(rune('A'+i)), 10)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for _, c := range courses {
		wg.Add(1)
		go func(courseID string) {
			defer wg.Done()
			if _, err := svc.Apply(context.Background(), student, courseID, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.True(t, apperrors.IsStatus(err, 400), "unexpected error: %v", err)
			}
		}(c.ID)
	}
	wg.Wait()

	assert.Equal(t, domain.MaxApplicationsPerInstitution, succeeded)
	apps, err := f.applications.List(context.Background(), repository.ApplicationFilter{StudentID: student.ID})
	require.NoError(t, err)
	assert.Len(t, apps, domain.MaxApplicationsPerInstitution)
}

func TestApplyRejectsClosedCourseAndInactiveInstitution(t *testing.T) {
	f := newFixture()
	svc := f.applicationService()
	ctx := context.Background()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)

	closed := f.course(t, inst, "Closed", 10)
	closed.Status = domain.CourseStatusClosed
	require.NoError(t, f.courses.Update(ctx, closed))
	_, err := svc.Apply(ctx, student, closed.ID, "")
	assert.True(t, apperrors.IsStatus(err, 400))

	_, err = svc.Apply(ctx, student, "missing", "")
	assert.True(t, apperrors.IsStatus(err, 404))

	open := f.course(t, inst, "Open", 10)
	inst.SetStatus(domain.InstitutionStatusSuspended)
	require.NoError(t, f.institutions.Update(ctx, inst))
	_, err = svc.Apply(ctx, student, open.ID, "")
	assert.True(t, apperrors.IsStatus(err, 400))
}

func TestWaitlistCourseCreatesWaitlistApplication(t *testing.T) {
	f := newFixture()
	svc := f.applicationService()
	ctx := context.Background()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)

	c := f.course(t, inst, "Popular", 10)
	c.Status = domain.CourseStatusWaitlist
	require.NoError(t, f.courses.Update(ctx, c))

	app, err := svc.Apply(ctx, student, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusWaitlist, app.Status)

	require.NoError(t, svc.Withdraw(ctx, student, app.ID))
	_, err = f.applications.GetByID(ctx, app.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateStatusAccountsForSeats(t *testing.T) {
	f := newFixture()
	svc := f.applicationService()
	ctx := context.Background()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	other := f.user(t, "other@uni.example.com", domain.RoleInstitution)
	c := f.course(t, inst, "Two Seats", 2)

	s1 := f.user(t, "s1@example.com", domain.RoleStudent)
	s2 := f.user(t, "s2@example.com", domain.RoleStudent)
	s3 := f.user(t, "s3@example.com", domain.RoleStudent)
	a1, err := svc.Apply(ctx, s1, c.ID, "")
	require.NoError(t, err)
	a2, err := svc.Apply(ctx, s2, c.ID, "")
	require.NoError(t, err)
	a3, err := svc.Apply(ctx, s3, c.ID, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, other, a1.ID, "admitted", "")
	assert.True(t, apperrors.IsStatus(err, 403))

	_, err = svc.UpdateStatus(ctx, owner, a1.ID, "admitted", "welcome")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, owner, a2.ID, "approved", "")
	require.NoError(t, err)

	course, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, course.AvailableSeats)
	assert.Equal(t, domain.CourseStatusClosed, course.Status)

	_, err = svc.UpdateStatus(ctx, owner, a3.ID, "admitted", "")
	assert.True(t, apperrors.IsStatus(err, 400))

	revoked, err := svc.UpdateStatus(ctx, owner, a1.ID, "rejected", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusRejected, revoked.Status)
	assert.NotNil(t, revoked.DecidedAt)

	course, err = f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.AvailableSeats)
}

func TestConcurrentAdmitsTakeOneSeat(t *testing.T) {
	f := newFixture()
	svc := f.applicationService()
	ctx := context.Background()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)
	c := f.course(t, inst, "Ten Seats", 10)

	app, err := svc.Apply(ctx, student, c.ID, "")
	require.NoError(t, err)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.UpdateStatus(ctx, owner, app.ID, "admitted", "")
			assert.NoError(t, err)
		}()
	}
	close(start)
	wg.Wait()

	course, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, course.AvailableSeats)
	assert.Equal(t, domain.CourseStatusOpen, course.Status)
}

func TestWithdrawRacingAdmissionKeepsSeatsConsistent(t *testing.T) {
	for i := 0; i < 20; i++ {
		f := newFixture()
		svc := f.applicationService()
		ctx := context.Background()
		owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
		inst := f.institution(t, owner)
		student := f.user(t, "student@example.com", domain.RoleStudent)
		c := f.course(t, inst, "Five Seats", 5)

		app, err := svc.Apply(ctx, student, c.ID, "")
		require.NoError(t, err)

		start := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			_, _ = svc.UpdateStatus(ctx, owner, app.ID, "admitted", "")
		}()
		go func() {
			defer wg.Done()
			<-start
			_ = svc.Withdraw(ctx, student, app.ID)
		}()
		close(start)
		wg.Wait()

		course, err := f.courses.GetByID(ctx, c.ID)
		require.NoError(t, err)
		stored, err := f.applications.GetByID(ctx, app.ID)
		if errors.Is(err, store.ErrNotFound) {
			assert.Equal(t, 5, course.AvailableSeats, "withdrawn application must not hold a seat")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, domain.ApplicationStatusAdmitted, stored.Status)
		assert.Equal(t, 4, course.AvailableSeats)
	}
}

type failingApplicationUpdates struct {
	repository.ApplicationRepository
}

func (failingApplicationUpdates) Update(context.Context, *domain.Application) error {
	return errors.New("write failed")
}

func TestUpdateStatusRestoresSeatsWhenApplicationWriteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)
	c := f.course(t, inst, "One Seat", 1)

	app, err := f.applicationService().Apply(ctx, student, c.ID, "")
	require.NoError(t, err)

	svc := NewApplicationService(ApplicationDependencies{
		ApplicationRepo: failingApplicationUpdates{f.applications},
		CourseRepo:      f.courses,
		InstitutionRepo: f.institutions,
		Dispatcher:      f.dispatcher,
		Logger:          zap.NewNop(),
	})
	_, err = svc.UpdateStatus(ctx, owner, app.ID, "admitted", "")
	require.Error(t, err)

	course, err := f.courses.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, course.AvailableSeats)
	assert.Equal(t, domain.CourseStatusOpen, course.Status)

	stored, err := f.applications.GetByID(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, stored.Status)
}

func TestNotificationsFollowApplicationEvents(t *testing.T) {
	f := newFixture()
	notifier := NewNotificationService(NotificationDependencies{
		NotificationRepo: f.notifications,
		Dispatcher:       f.dispatcher,
		Logger:           zap.NewNop(),
	})
	notifier.RegisterHandlers()
	svc := f.applicationService()
	ctx := context.Background()

	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	student := f.user(t, "student@example.com", domain.RoleStudent)
	c := f.course(t, inst, "Course", 5)

	app, err := svc.Apply(ctx, student, c.ID, "")
	require.NoError(t, err)

	ownerNotes, err := notifier.ListForUser(ctx, owner.ID, false)
	require.NoError(t, err)
	require.Len(t, ownerNotes, 1)
	assert.Equal(t, domain.NotificationApplicationSubmitted, ownerNotes[0].Type)

	_, err = svc.UpdateStatus(ctx, owner, app.ID, "rejected", "")
	require.NoError(t, err)

	studentNotes, err := notifier.ListForUser(ctx, student.ID, true)
	require.NoError(t, err)
	require.Len(t, studentNotes, 2)
	assert.Equal(t, domain.NotificationApplicationStatus, studentNotes[0].Type)
	assert.Contains(t, studentNotes[0].Message, "rejected")

	_, err = notifier.MarkRead(ctx, owner.ID, studentNotes[0].ID)
	assert.True(t, apperrors.IsStatus(err, 404))

	read, err := notifier.MarkRead(ctx, student.ID, studentNotes[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
}

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cfg := config.Config{
		Auth: config.AuthConfig{BcryptCost: 4},
		Seed: config.SeedConfig{AdminEmail: "admin@careerhub.test", AdminPassword: "admin12345"},
	}
	deps := SeedDependencies{
		UserRepo:        f.users,
		InstitutionRepo: f.institutions,
		FacultyRepo:     f.faculties,
		CourseRepo:      f.courses,
		Logger:          zap.NewNop(),
	}

	require.NoError(t, Seed(ctx, cfg, deps))
	require.NoError(t, Seed(ctx, cfg, deps))

	admin, err := f.users.GetByEmail(ctx, "admin@careerhub.test")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.True(t, admin.IsVerified)

	institutions, err := f.institutions.List(ctx, domain.InstitutionStatusActive)
	require.NoError(t, err)
	assert.Len(t, institutions, len(demoInstitutions))
}

type failingInstitutionCreates struct {
	repository.InstitutionRepository
}

func (failingInstitutionCreates) Create(context.Context, *domain.Institution) error {
	return errors.New("write failed")
}

func TestInstitutionRegistrationRollsBackAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "secret", BcryptCost: 4, VerificationTTLHours: 24}}
	input := RegisterInput{
		Email:           "admissions@uni.example.com",
		Password:        "secret123",
		Name:            "Admissions",
		Role:            domain.RoleInstitution,
		InstitutionName: "Test University",
	}

	broken := NewAuthService(cfg, AuthDependencies{
		UserRepo:        f.users,
		InstitutionRepo: failingInstitutionCreates{f.institutions},
		Logger:          zap.NewNop(),
	})
	_, err := broken.Register(ctx, input)
	require.Error(t, err)

	_, err = f.users.GetByEmail(ctx, input.Email)
	assert.ErrorIs(t, err, store.ErrNotFound)

	working := NewAuthService(cfg, AuthDependencies{
		UserRepo:        f.users,
		InstitutionRepo: f.institutions,
		Logger:          zap.NewNop(),
	})
	result, err := working.Register(ctx, input)
	require.NoError(t, err)
	assert.NotEmpty(t, result.User.InstitutionID)
}

func TestUpdateCourseShiftsAvailableSeats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	svc := NewInstitutionService(InstitutionDependencies{
		InstitutionRepo: f.institutions,
		FacultyRepo:     f.faculties,
		CourseRepo:      f.courses,
	})
	owner := f.user(t, "owner@uni.example.com", domain.RoleInstitution)
	inst := f.institution(t, owner)
	c := f.course(t, inst, "Course", 10)
	c.TakeSeat()
	c.TakeSeat()
	require.NoError(t, f.courses.Update(ctx, c))

	seats := 20
	updated, err := svc.UpdateCourse(ctx, owner, c.ID, CourseUpdate{Seats: &seats})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Seats)
	assert.Equal(t, 18, updated.AvailableSeats)

	stranger := f.user(t, "stranger@uni.example.com", domain.RoleInstitution)
	f.institution(t, stranger)
	_, err = svc.UpdateCourse(ctx, stranger, c.ID, CourseUpdate{Seats: &seats})
	assert.True(t, apperrors.IsStatus(err, 404))

	require.NoError(t, svc.DeleteCourse(ctx, owner, c.ID))
	_, err = f.courses.GetByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestKeyedMutexSerialisesPerKey(t *testing.T) {
	m := newKeyedMutex()
	unlock := m.Lock("a")

	done := make(chan struct{})
	go func() {
		release := m.Lock("a")
		release()
		close(done)
	}()

	other := m.Lock("b")
	other()

	select {
	case <-done:
		t.Fatal("second lock on the same key acquired while held")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-done
}
