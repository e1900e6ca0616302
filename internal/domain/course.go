package domain

import (
	"strings"
	"time"
)

// CourseStatus controls whether a course accepts applications.
type CourseStatus string

const (
	CourseStatusOpen     CourseStatus = "open"
	CourseStatusClosed   CourseStatus = "closed"
	CourseStatusWaitlist CourseStatus = "waitlist"
)

// Valid reports whether s is a known course status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusOpen, CourseStatusClosed, CourseStatusWaitlist:
		return true
	}
	return false
}

// Requirements lists the subjects whose average must reach MinimumGrade.
// An empty subject list means the overall average is used.
type Requirements struct {
	Subjects     []string `json:"subjects"`
	MinimumGrade float64  `json:"minimumGrade"`
}

// Course is a programme offered by an institution.
type Course struct {
	ID             string       `json:"id,omitempty"`
	InstitutionID  string       `json:"institutionId"`
	FacultyID      string       `json:"facultyId"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Requirements   Requirements `json:"requirements"`
	Duration       string       `json:"duration"`
	Fees           float64      `json:"fees"`
	Seats          int          `json:"seats"`
	AvailableSeats int          `json:"availableSeats"`
	Status         CourseStatus `json:"status"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// NewCourseInput carries course creation data.
type NewCourseInput struct {
	InstitutionID string
	FacultyID     string
	Name          string
	Description   string
	Requirements  Requirements
	Duration      string
	Fees          float64
	Seats         int
}

// NewCourse validates and builds an open course with every seat available.
func NewCourse(in NewCourseInput) (*Course, error) {
	errs := fieldErrors{}
	errs.require("institutionId", in.InstitutionID)
	errs.require("name", in.Name)
	if in.Seats < 0 {
		errs.add("seats", "must not be negative")
	}
	if in.Fees < 0 {
		errs.add("fees", "must not be negative")
	}
	if in.Requirements.MinimumGrade < 0 || in.Requirements.MinimumGrade > MaxGrade {
		errs.add("requirements.minimumGrade", "must be between 0 and 100")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &Course{
		InstitutionID:  in.InstitutionID,
		FacultyID:      in.FacultyID,
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Requirements:   normalizeRequirements(in.Requirements),
		Duration:       strings.TrimSpace(in.Duration),
		Fees:           in.Fees,
		Seats:          in.Seats,
		AvailableSeats: in.Seats,
		Status:         CourseStatusOpen,
	}, nil
}

// AcceptsApplications reports whether students may still apply.
func (c *Course) AcceptsApplications() bool {
	return c.Status != CourseStatusClosed
}

// TakeSeat consumes one available seat, closing the course when none remain.
// Courses created without a seat limit are left untouched.
func (c *Course) TakeSeat() {
	if c.Seats == 0 {
		return
	}
	if c.AvailableSeats > 0 {
		c.AvailableSeats--
	}
	if c.AvailableSeats == 0 {
		c.Status = CourseStatusClosed
	}
}

func normalizeRequirements(r Requirements) Requirements {
	subjects := make([]string, 0, len(r.Subjects))
	for _, s := range r.Subjects {
		if s = strings.TrimSpace(s); s != "" {
			subjects = append(subjects, s)
		}
	}
	return Requirements{Subjects: subjects, MinimumGrade: r.MinimumGrade}
}

// ReleaseSeat returns a seat taken by a revoked admission. It never
// reopens a closed course.
func (c *Course) ReleaseSeat() {
	if c.Seats == 0 || c.AvailableSeats >= c.Seats {
		return
	}
	c.AvailableSeats++
}

// HasFreeSeat reports whether an admission can still be recorded.
func (c *Course) HasFreeSeat() bool {
	return c.Seats == 0 || c.AvailableSeats > 0
}
