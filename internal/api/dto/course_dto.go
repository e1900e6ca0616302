package dto

import (
	"time"

	"github.com/careerhub/career-api/internal/domain"
)

// RequirementsPayload is the admission requirement block of a course.
type RequirementsPayload struct {
	Subjects     []string `json:"subjects"`
	MinimumGrade float64  `json:"minimumGrade" validate:"gte=0,lte=100"`
}

// CreateCourseRequest publishes a course.
type CreateCourseRequest struct {
	FacultyID    string              `json:"facultyId"`
	Name         string              `json:"name" validate:"required"`
	Description  string              `json:"description"`
	Requirements RequirementsPayload `json:"requirements"`
	Duration     string              `json:"duration"`
	Fees         float64             `json:"fees" validate:"gte=0"`
	Seats        int                 `json:"seats" validate:"gte=0"`
}

// UpdateCourseRequest holds optional course fields.
type UpdateCourseRequest struct {
	FacultyID    *string              `json:"facultyId"`
	Name         *string              `json:"name" validate:"omitempty,min=1"`
	Description  *string              `json:"description"`
	Requirements *RequirementsPayload `json:"requirements"`
	Duration     *string              `json:"duration"`
	Fees         *float64             `json:"fees" validate:"omitempty,gte=0"`
	Seats        *int                 `json:"seats" validate:"omitempty,gte=0"`
	Status       *string              `json:"status" validate:"omitempty,course_status"`
}

// Requirements converts the payload to the domain type.
func (r RequirementsPayload) Requirements() domain.Requirements {
	return domain.Requirements{Subjects: r.Subjects, MinimumGrade: r.MinimumGrade}
}

// CourseResponse course view.
type CourseResponse struct {
	ID             string              `json:"id"`
	InstitutionID  string              `json:"institutionId"`
	FacultyID      string              `json:"facultyId,omitempty"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Requirements   domain.Requirements `json:"requirements"`
	Duration       string              `json:"duration"`
	Fees           float64             `json:"fees"`
	Seats          int                 `json:"seats"`
	AvailableSeats int                 `json:"availableSeats"`
	Status         domain.CourseStatus `json:"status"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func NewCourseResponse(c *domain.Course) CourseResponse {
	req := c.Requirements
	if req.Subjects == nil {
		req.Subjects = []string{}
	}
	return CourseResponse{
		ID:             c.ID,
		InstitutionID:  c.InstitutionID,
		FacultyID:      c.FacultyID,
		Name:           c.Name,
		Description:    c.Description,
		Requirements:   req,
		Duration:       c.Duration,
		Fees:           c.Fees,
		Seats:          c.Seats,
		AvailableSeats: c.AvailableSeats,
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewCourseList(items []domain.Course) List[CourseResponse] {
	return NewList(mapSlice(items, NewCourseResponse))
}
