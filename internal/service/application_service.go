package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/events"
	"github.com/careerhub/career-api/internal/repository"
	"github.com/careerhub/career-api/internal/store"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// ApplicationService handles student applications to courses.
type ApplicationService struct {
	applications repository.ApplicationRepository
	courses      repository.CourseRepository
	institutions repository.InstitutionRepository
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	students     *keyedMutex
	courseLocks  *keyedMutex
	now          func() time.Time
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	ApplicationRepo repository.ApplicationRepository
	CourseRepo      repository.CourseRepository
	InstitutionRepo repository.InstitutionRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		courses:      deps.CourseRepo,
		institutions: deps.InstitutionRepo,
		dispatcher:   deps.Dispatcher,
		logger:       logger,
		students:     newKeyedMutex(),
		courseLocks:  newKeyedMutex(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Apply submits a student's application to a course. A student may apply
// once per course and to at most MaxApplicationsPerInstitution courses at
// one institution.
func (s *ApplicationService) Apply(ctx context.Context, student *domain.User, courseID, notes string) (*domain.Application, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "Course")
	}
	if !course.AcceptsApplications() {
		return nil, apperrors.NewBadRequest("This course is not accepting applications")
	}
	inst, err := s.institutions.GetByID(ctx, course.InstitutionID)
	if err != nil {
		return nil, storeError(err, "Institution")
	}
	if !inst.IsActive() {
		return nil, apperrors.NewBadRequest("This institution is not accepting applications")
	}

	unlock := s.students.Lock(student.ID)
	defer unlock()

	existing, err := s.applications.List(ctx, repository.ApplicationFilter{
		StudentID:     student.ID,
		InstitutionID: course.InstitutionID,
	})
	if err != nil {
		return nil, err
	}
	for _, app := range existing {
		if app.CourseID == course.ID {
			return nil, apperrors.NewConflict("You have already applied to this course", nil)
		}
	}
	if len(existing) >= domain.MaxApplicationsPerInstitution {
		return nil, apperrors.NewBadRequest(fmt.Sprintf(
			"You can only apply to a maximum of %d courses per institution", domain.MaxApplicationsPerInstitution))
	}

	app, err := domain.NewApplication(student.ID, course, notes, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperrors.NewConflict("You have already applied to this course", nil)
		}
		return nil, err
	}

	s.logger.Info("application submitted",
		zap.String("application_id", app.ID),
		zap.String("student_id", student.ID),
		zap.String("course_id", course.ID))
	publish(ctx, s.dispatcher, s.logger, events.New(events.EventApplicationSubmitted, student.ID,
		events.ApplicationSubmittedPayload{
			ApplicationID:   app.ID,
			StudentID:       student.ID,
			CourseName:      course.Name,
			InstitutionName: inst.Name,
			OwnerID:         inst.OwnerID,
			Status:          app.Status,
		}))
	return app, nil
}

// ParseStatusFilter validates an optional status query value.
func ParseStatusFilter(raw string) (domain.ApplicationStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	status, ok := domain.ParseApplicationStatus(raw)
	if !ok {
		return "", apperrors.NewValidationError("Invalid or missing fields: status",
			map[string]any{"errors": map[string]any{"status": "must be one of: pending, admitted, rejected, waitlist"}})
	}
	return status, nil
}

// List returns the applications visible to caller: their own for
// students, their institution's for institutions, all for admins.
func (s *ApplicationService) List(ctx context.Context, caller *domain.User, status domain.ApplicationStatus) ([]domain.Application, error) {
	filter := repository.ApplicationFilter{Status: status}
	switch caller.Role {
	case domain.RoleStudent:
		filter.StudentID = caller.ID
	case domain.RoleInstitution:
		if caller.InstitutionID == "" {
			return []domain.Application{}, nil
		}
		filter.InstitutionID = caller.InstitutionID
	case domain.RoleAdmin:
	default:
		return nil, apperrors.NewForbidden("Access denied. Insufficient permissions.")
	}
	return s.applications.List(ctx, filter)
}

// ListForStudent returns a student's applications, newest first.
func (s *ApplicationService) ListForStudent(ctx context.Context, studentID string) ([]domain.Application, error) {
	return s.applications.List(ctx, repository.ApplicationFilter{StudentID: studentID})
}

// Get returns an application to its student, its institution or an admin.
func (s *ApplicationService) Get(ctx context.Context, caller *domain.User, id string) (*domain.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Application")
	}
	if !canView(caller, app) {
		return nil, apperrors.NewForbidden("You do not have access to this application")
	}
	return app, nil
}

func canView(caller *domain.User, app *domain.Application) bool {
	switch caller.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleStudent:
		return app.StudentID == caller.ID
	case domain.RoleInstitution:
		return caller.InstitutionID != "" && app.InstitutionID == caller.InstitutionID
	}
	return false
}

// UpdateStatus records an admission decision. Only the owning institution
// or an admin may decide. Admitting takes a seat and closes the course when
// the last one goes; revoking an admission gives the seat back.
func (s *ApplicationService) UpdateStatus(ctx context.Context, caller *domain.User, id, rawStatus, notes string) (*domain.Application, error) {
	status, ok := domain.ParseApplicationStatus(rawStatus)
	if !ok {
		return nil, apperrors.NewValidationError("Invalid or missing fields: status",
			map[string]any{"errors": map[string]any{"status": "must be one of: pending, admitted, rejected, waitlist"}})
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Application")
	}
	if caller.Role != domain.RoleAdmin &&
		(caller.Role != domain.RoleInstitution || caller.InstitutionID == "" || caller.InstitutionID != app.InstitutionID) {
		return nil, apperrors.NewForbidden("You can only update applications to your institution")
	}

	unlock := s.courseLocks.Lock(app.CourseID)
	defer unlock()

	// Decisions on one course are serialised; the status read before the
	// lock may already be stale.
	app, err = s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Application")
	}

	course, err := s.courses.GetByID(ctx, app.CourseID)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	oldStatus := app.Status
	seatsChanged := false
	var before domain.Course
	if course != nil {
		before = *course
	}
	if course != nil && oldStatus != status {
		switch {
		case status == domain.ApplicationStatusAdmitted:
			if !course.HasFreeSeat() {
				return nil, apperrors.NewBadRequest("No seats available for this course")
			}
			course.TakeSeat()
			seatsChanged = true
		case oldStatus == domain.ApplicationStatusAdmitted:
			course.ReleaseSeat()
			seatsChanged = true
		}
	}

	if seatsChanged {
		if err := s.courses.Update(ctx, course); err != nil {
			s.logger.Error("update course seats", zap.String("course_id", course.ID), zap.Error(err))
			return nil, err
		}
	}

	app.Decide(status, s.now())
	if strings.TrimSpace(notes) != "" {
		app.Notes = strings.TrimSpace(notes)
	}
	if err := s.applications.Update(ctx, app); err != nil {
		if seatsChanged {
			s.restoreSeats(ctx, before)
		}
		return nil, storeError(err, "Application")
	}

	if oldStatus != status {
		courseName, instName := "", ""
		if course != nil {
			courseName = course.Name
		}
		if inst, err := s.institutions.GetByID(ctx, app.InstitutionID); err == nil {
			instName = inst.Name
		}
		publish(ctx, s.dispatcher, s.logger, events.New(events.EventApplicationStatusChanged, caller.ID,
			events.ApplicationStatusChangedPayload{
				ApplicationID:   app.ID,
				StudentID:       app.StudentID,
				CourseName:      courseName,
				InstitutionName: instName,
				OldStatus:       oldStatus,
				NewStatus:       status,
			}))
	}
	return app, nil
}

// Withdraw deletes a student's own application while it is undecided.
func (s *ApplicationService) Withdraw(ctx context.Context, student *domain.User, id string) error {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Application")
	}
	if app.StudentID != student.ID {
		return apperrors.NewForbidden("You can only withdraw your own applications")
	}

	unlockCourse := s.courseLocks.Lock(app.CourseID)
	defer unlockCourse()
	unlock := s.students.Lock(student.ID)
	defer unlock()

	// Re-read under the course lock so a concurrent admission is seen.
	app, err = s.applications.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "Application")
	}
	if app.Status != domain.ApplicationStatusPending && app.Status != domain.ApplicationStatusWaitlist {
		return apperrors.NewBadRequest("Only pending or waitlisted applications can be withdrawn")
	}
	return storeError(s.applications.Delete(ctx, id), "Application")
}

// restoreSeats puts back the seat count and status a course had before a
// decision whose application write failed. The caller holds the course lock.
func (s *ApplicationService) restoreSeats(ctx context.Context, before domain.Course) {
	course, err := s.courses.GetByID(ctx, before.ID)
	if err != nil {
		s.logger.Error("reload course for seat rollback", zap.String("course_id", before.ID), zap.Error(err))
		return
	}
	course.AvailableSeats = before.AvailableSeats
	course.Status = before.Status
	if err := s.courses.Update(ctx, course); err != nil {
		s.logger.Error("roll back course seats", zap.String("course_id", before.ID), zap.Error(err))
	}
}
