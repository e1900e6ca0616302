package service

import (
	"context"
	"sort"

	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/repository"
)

// StudentService manages transcripts and course eligibility.
type StudentService struct {
	users           repository.UserRepository
	transcripts     repository.TranscriptRepository
	courses         repository.CourseRepository
	institutions    repository.InstitutionRepository
	applications    repository.ApplicationRepository
	jobApplications repository.JobApplicationRepository
}

// StudentDependencies bundles repositories for the student service.
type StudentDependencies struct {
	UserRepo           repository.UserRepository
	TranscriptRepo     repository.TranscriptRepository
	CourseRepo         repository.CourseRepository
	InstitutionRepo    repository.InstitutionRepository
	ApplicationRepo    repository.ApplicationRepository
	JobApplicationRepo repository.JobApplicationRepository
}

func NewStudentService(deps StudentDependencies) *StudentService {
	return &StudentService{
		users:           deps.UserRepo,
		transcripts:     deps.TranscriptRepo,
		courses:         deps.CourseRepo,
		institutions:    deps.InstitutionRepo,
		applications:    deps.ApplicationRepo,
		jobApplications: deps.JobApplicationRepo,
	}
}

// StudentProfile summarises a student's account.
type StudentProfile struct {
	User                *domain.User
	Transcript          *domain.Transcript
	ApplicationCount    int
	JobApplicationCount int
}

// Profile returns the student's account with transcript and activity counts.
func (s *StudentService) Profile(ctx context.Context, studentID string) (*StudentProfile, error) {
	user, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		return nil, storeError(err, "Student")
	}
	profile := &StudentProfile{User: user}

	transcript, err := s.transcripts.GetByStudent(ctx, studentID)
	switch {
	case err == nil:
		profile.Transcript = transcript
	case !isNotFound(err):
		return nil, err
	}

	apps, err := s.applications.List(ctx, repository.ApplicationFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	jobApps, err := s.jobApplications.List(ctx, repository.JobApplicationFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	profile.ApplicationCount = len(apps)
	profile.JobApplicationCount = len(jobApps)
	return profile, nil
}

// SaveTranscript replaces the student's grades.
func (s *StudentService) SaveTranscript(ctx context.Context, studentID string, grades []domain.SubjectGrade) (*domain.Transcript, error) {
	transcript, err := domain.NewTranscript(studentID, grades)
	if err != nil {
		return nil, err
	}
	if err := s.transcripts.Upsert(ctx, transcript); err != nil {
		return nil, err
	}
	return transcript, nil
}

// Transcript returns the student's grades.
func (s *StudentService) Transcript(ctx context.Context, studentID string) (*domain.Transcript, error) {
	transcript, err := s.transcripts.GetByStudent(ctx, studentID)
	return transcript, storeError(err, "Transcript")
}

// EligibleCourse is a course with the student's standing against its requirements.
type EligibleCourse struct {
	Course          domain.Course
	InstitutionName string
	Qualification   domain.Qualification
}

// QualifiedCourses checks the student's transcript against every course of
// an active institution that still accepts applications. With all set,
// courses the student does not qualify for are included too.
func (s *StudentService) QualifiedCourses(ctx context.Context, studentID string, all bool) ([]EligibleCourse, error) {
	transcript, err := s.Transcript(ctx, studentID)
	if err != nil {
		return nil, err
	}
	institutions, err := s.institutions.List(ctx, domain.InstitutionStatusActive)
	if err != nil {
		return nil, err
	}

	out := make([]EligibleCourse, 0)
	for _, inst := range institutions {
		courses, err := s.courses.List(ctx, repository.CourseFilter{
			InstitutionID: inst.ID,
			Statuses:      []domain.CourseStatus{domain.CourseStatusOpen, domain.CourseStatusWaitlist},
		})
		if err != nil {
			return nil, err
		}
		for i := range courses {
			q := transcript.Qualify(&courses[i])
			if !q.Qualified && !all {
				continue
			}
			out = append(out, EligibleCourse{Course: courses[i], InstitutionName: inst.Name, Qualification: q})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].InstitutionName != out[j].InstitutionName {
			return out[i].InstitutionName < out[j].InstitutionName
		}
		return out[i].Course.Name < out[j].Course.Name
	})
	return out, nil
}
