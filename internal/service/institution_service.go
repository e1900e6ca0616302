package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/repository"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// InstitutionService serves the public catalogue and the institution
// account's own faculties and courses.
type InstitutionService struct {
	institutions repository.InstitutionRepository
	faculties    repository.FacultyRepository
	courses      repository.CourseRepository
	logger       *zap.Logger
}

// InstitutionDependencies bundles repositories for the institution service.
type InstitutionDependencies struct {
	InstitutionRepo repository.InstitutionRepository
	FacultyRepo     repository.FacultyRepository
	CourseRepo      repository.CourseRepository
	Logger          *zap.Logger
}

// NewInstitutionService constructs the service.
func NewInstitutionService(deps InstitutionDependencies) *InstitutionService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstitutionService{
		institutions: deps.InstitutionRepo,
		faculties:    deps.FacultyRepo,
		courses:      deps.CourseRepo,
		logger:       logger,
	}
}

// ListPublic returns active institutions whose name contains q, sorted by name.
func (s *InstitutionService) ListPublic(ctx context.Context, q string) ([]domain.Institution, error) {
	all, err := s.institutions.List(ctx, domain.InstitutionStatusActive)
	if err != nil {
		return nil, err
	}
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]domain.Institution, 0, len(all))
	for _, inst := range all {
		if q == "" || strings.Contains(strings.ToLower(inst.Name), q) {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetPublic returns an active institution. Inactive ones are reported missing.
func (s *InstitutionService) GetPublic(ctx context.Context, id string) (*domain.Institution, error) {
	inst, err := s.institutions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Institution")
	}
	if !inst.IsActive() {
		return nil, apperrors.NewNotFound("Institution", nil)
	}
	return inst, nil
}

// Courses lists the courses of an active institution.
func (s *InstitutionService) Courses(ctx context.Context, institutionID string) ([]domain.Course, error) {
	if _, err := s.GetPublic(ctx, institutionID); err != nil {
		return nil, err
	}
	return s.courses.List(ctx, repository.CourseFilter{InstitutionID: institutionID})
}

// Faculties lists the faculties of an active institution.
func (s *InstitutionService) Faculties(ctx context.Context, institutionID string) ([]domain.Faculty, error) {
	if _, err := s.GetPublic(ctx, institutionID); err != nil {
		return nil, err
	}
	return s.faculties.ListByInstitution(ctx, institutionID)
}

// Mine returns the institution linked to an institution account.
func (s *InstitutionService) Mine(ctx context.Context, user *domain.User) (*domain.Institution, error) {
	if user.InstitutionID == "" {
		return nil, apperrors.NewNotFound("Institution profile", nil)
	}
	inst, err := s.institutions.GetByID(ctx, user.InstitutionID)
	return inst, storeError(err, "Institution profile")
}

// mineActive is Mine restricted to institutions an admin has approved.
func (s *InstitutionService) mineActive(ctx context.Context, user *domain.User) (*domain.Institution, error) {
	inst, err := s.Mine(ctx, user)
	if err != nil {
		return nil, err
	}
	if !inst.IsActive() {
		return nil, apperrors.NewForbidden("Institution is not active. Wait for admin approval before publishing.")
	}
	return inst, nil
}

// InstitutionUpdate holds optional institution profile changes.
type InstitutionUpdate struct {
	Name        *string
	Phone       *string
	Address     *string
	Website     *string
	Description *string
}

// UpdateMine edits the caller's institution profile. Email and status are
// not editable here.
func (s *InstitutionService) UpdateMine(ctx context.Context, user *domain.User, in InstitutionUpdate) (*domain.Institution, error) {
	inst, err := s.Mine(ctx, user)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("Invalid or missing fields: name",
				map[string]any{"errors": map[string]any{"name": "is required"}})
		}
		inst.Name = name
	}
	setTrimmed(&inst.Phone, in.Phone)
	setTrimmed(&inst.Address, in.Address)
	setTrimmed(&inst.Website, in.Website)
	setTrimmed(&inst.Description, in.Description)

	if err := s.institutions.Update(ctx, inst); err != nil {
		return nil, storeError(err, "Institution")
	}
	return inst, nil
}

// AddFaculty creates a faculty under the caller's active institution.
func (s *InstitutionService) AddFaculty(ctx context.Context, user *domain.User, name, description string) (*domain.Faculty, error) {
	inst, err := s.mineActive(ctx, user)
	if err != nil {
		return nil, err
	}
	faculty, err := domain.NewFaculty(inst.ID, name, description)
	if err != nil {
		return nil, err
	}
	if err := s.faculties.Create(ctx, faculty); err != nil {
		return nil, err
	}
	return faculty, nil
}

// AddCourse publishes a course under the caller's active institution.
func (s *InstitutionService) AddCourse(ctx context.Context, user *domain.User, in domain.NewCourseInput) (*domain.Course, error) {
	inst, err := s.mineActive(ctx, user)
	if err != nil {
		return nil, err
	}
	in.InstitutionID = inst.ID
	if err := s.checkFaculty(ctx, inst.ID, in.FacultyID); err != nil {
		return nil, err
	}
	course, err := domain.NewCourse(in)
	if err != nil {
		return nil, err
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("institution_id", inst.ID))
	return course, nil
}

func (s *InstitutionService) checkFaculty(ctx context.Context, institutionID, facultyID string) error {
	if facultyID == "" {
		return nil
	}
	faculty, err := s.faculties.GetByID(ctx, facultyID)
	if err != nil {
		return storeError(err, "Faculty")
	}
	if faculty.InstitutionID != institutionID {
		return apperrors.NewNotFound("Faculty", nil)
	}
	return nil
}

// CourseUpdate holds optional course changes.
type CourseUpdate struct {
	FacultyID    *string
	Name         *string
	Description  *string
	Requirements *domain.Requirements
	Duration     *string
	Fees         *float64
	Seats        *int
	Status       *domain.CourseStatus
}

// UpdateCourse edits a course of the caller's institution. Changing the
// seat count shifts availableSeats by the same amount.
func (s *InstitutionService) UpdateCourse(ctx context.Context, user *domain.User, courseID string, in CourseUpdate) (*domain.Course, error) {
	inst, err := s.mineActive(ctx, user)
	if err != nil {
		return nil, err
	}
	course, err := s.ownedCourse(ctx, inst.ID, courseID)
	if err != nil {
		return nil, err
	}

	if in.FacultyID != nil {
		facultyID := strings.TrimSpace(*in.FacultyID)
		if err := s.checkFaculty(ctx, inst.ID, facultyID); err != nil {
			return nil, err
		}
		course.FacultyID = facultyID
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		course.Name = strings.TrimSpace(*in.Name)
	}
	setTrimmed(&course.Description, in.Description)
	setTrimmed(&course.Duration, in.Duration)
	if in.Requirements != nil {
		course.Requirements = *in.Requirements
	}
	if in.Fees != nil {
		course.Fees = *in.Fees
	}
	if in.Seats != nil {
		taken := course.Seats - course.AvailableSeats
		course.Seats = *in.Seats
		course.AvailableSeats = *in.Seats - taken
		if course.AvailableSeats < 0 {
			course.AvailableSeats = 0
		}
	}
	if in.Status != nil {
		course.Status = *in.Status
	}

	// re-run constructor validation over the merged record
	validated, err := domain.NewCourse(domain.NewCourseInput{
		InstitutionID: course.InstitutionID,
		Name:          course.Name,
		Requirements:  course.Requirements,
		Fees:          course.Fees,
		Seats:         course.Seats,
	})
	if err != nil {
		return nil, err
	}
	course.Requirements = validated.Requirements
	if !course.Status.Valid() {
		return nil, apperrors.NewValidationError("Invalid or missing fields: status",
			map[string]any{"errors": map[string]any{"status": "must be one of: open, closed, waitlist"}})
	}

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, storeError(err, "Course")
	}
	return course, nil
}

// DeleteCourse removes a course of the caller's institution.
func (s *InstitutionService) DeleteCourse(ctx context.Context, user *domain.User, courseID string) error {
	inst, err := s.mineActive(ctx, user)
	if err != nil {
		return err
	}
	if _, err := s.ownedCourse(ctx, inst.ID, courseID); err != nil {
		return err
	}
	return storeError(s.courses.Delete(ctx, courseID), "Course")
}

func (s *InstitutionService) ownedCourse(ctx context.Context, institutionID, courseID string) (*domain.Course, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storeError(err, "Course")
	}
	if course.InstitutionID != institutionID {
		return nil, apperrors.NewNotFound("Course", nil)
	}
	return course, nil
}
