package dto

import (
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
)

// GradePayload is one transcript entry.
type GradePayload struct {
	Subject string  `json:"subject" validate:"required"`
	Grade   float64 `json:"grade" validate:"gte=0,lte=100"`
}

// TranscriptRequest replaces a student's grades.
type TranscriptRequest struct {
	Grades []GradePayload `json:"grades" validate:"required,min=1,dive"`
}

// DomainGrades converts the payload to domain grades.
func (r TranscriptRequest) DomainGrades() []domain.SubjectGrade {
	out := make([]domain.SubjectGrade, 0, len(r.Grades))
	for _, g := range r.Grades {
		out = append(out, domain.SubjectGrade{Subject: g.Subject, Grade: g.Grade})
	}
	return out
}

// StudentProfileResponse is a student's account summary.
type StudentProfileResponse struct {
	User                UserResponse       `json:"user"`
	Transcript          *domain.Transcript `json:"transcript"`
	ApplicationCount    int                `json:"applicationCount"`
	JobApplicationCount int                `json:"jobApplicationCount"`
}

func NewStudentProfileResponse(p *service.StudentProfile) StudentProfileResponse {
	return StudentProfileResponse{
		User:                NewUserResponse(p.User),
		Transcript:          p.Transcript,
		ApplicationCount:    p.ApplicationCount,
		JobApplicationCount: p.JobApplicationCount,
	}
}

// EligibleCourseResponse is a course with the student's standing.
type EligibleCourseResponse struct {
	Course          CourseResponse       `json:"course"`
	InstitutionName string               `json:"institutionName"`
	Qualification   domain.Qualification `json:"qualification"`
}

func NewEligibleCourseList(items []service.EligibleCourse) List[EligibleCourseResponse] {
	return NewList(mapSlice(items, func(e *service.EligibleCourse) EligibleCourseResponse {
		return EligibleCourseResponse{
			Course:          NewCourseResponse(&e.Course),
			InstitutionName: e.InstitutionName,
			Qualification:   e.Qualification,
		}
	}))
}

func NewNotificationList(items []domain.Notification) List[domain.Notification] {
	return NewList(items)
}
