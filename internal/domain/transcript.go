package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxGrade is the top of the percentage grading scale.
const MaxGrade = 100.0

// SubjectGrade is a single result on a student's transcript.
type SubjectGrade struct {
	Subject string  `json:"subject"`
	Grade   float64 `json:"grade"`
}

// Transcript holds a student's latest results. One per student.
type Transcript struct {
	ID        string         `json:"id,omitempty"`
	StudentID string         `json:"studentId"`
	Grades    []SubjectGrade `json:"grades"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewTranscript validates grades. Subjects are matched case-insensitively,
// so repeating a subject is rejected.
func NewTranscript(studentID string, grades []SubjectGrade) (*Transcript, error) {
	errs := fieldErrors{}
	errs.require("studentId", studentID)
	if len(grades) == 0 {
		errs.add("grades", "at least one subject grade is required")
	}
	seen := make(map[string]struct{}, len(grades))
	cleaned := make([]SubjectGrade, 0, len(grades))
	for i, g := range grades {
		subject := strings.TrimSpace(g.Subject)
		key := strings.ToLower(subject)
		switch {
		case subject == "":
			errs.add(fmt.Sprintf("grades[%d].subject", i), "is required")
		case g.Grade < 0 || g.Grade > MaxGrade:
			errs.add(fmt.Sprintf("grades[%d].grade", i), "must be between 0 and 100")
		default:
			if _, dup := seen[key]; dup {
				errs.add(fmt.Sprintf("grades[%d].subject", i), "is listed more than once")
				continue
			}
			seen[key] = struct{}{}
			cleaned = append(cleaned, SubjectGrade{Subject: subject, Grade: g.Grade})
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &Transcript{StudentID: studentID, Grades: cleaned}, nil
}

// Average returns the mean grade over subjects, or over every subject when
// none are given. ok is false when a requested subject is missing.
func (t *Transcript) Average(subjects []string) (avg float64, ok bool) {
	if len(t.Grades) == 0 {
		return 0, false
	}
	if len(subjects) == 0 {
		var sum float64
		for _, g := range t.Grades {
			sum += g.Grade
		}
		return sum / float64(len(t.Grades)), true
	}

	bySubject := make(map[string]float64, len(t.Grades))
	for _, g := range t.Grades {
		bySubject[strings.ToLower(g.Subject)] = g.Grade
	}
	var sum float64
	for _, s := range subjects {
		grade, found := bySubject[strings.ToLower(strings.TrimSpace(s))]
		if !found {
			return 0, false
		}
		sum += grade
	}
	return sum / float64(len(subjects)), true
}

// Qualification is the outcome of checking a transcript against a course.
type Qualification struct {
	Qualified       bool     `json:"qualified"`
	Average         float64  `json:"average"`
	MinimumGrade    float64  `json:"minimumGrade"`
	MissingSubjects []string `json:"missingSubjects,omitempty"`
}

// Qualify checks the transcript against the course requirements.
func (t *Transcript) Qualify(course *Course) Qualification {
	req := course.Requirements
	q := Qualification{MinimumGrade: req.MinimumGrade}

	have := make(map[string]struct{}, len(t.Grades))
	for _, g := range t.Grades {
		have[strings.ToLower(g.Subject)] = struct{}{}
	}
	for _, s := range req.Subjects {
		if _, ok := have[strings.ToLower(s)]; !ok {
			q.MissingSubjects = append(q.MissingSubjects, s)
		}
	}
	if len(q.MissingSubjects) > 0 {
		return q
	}

	avg, ok := t.Average(req.Subjects)
	if !ok {
		return q
	}
	q.Average = avg
	q.Qualified = avg >= req.MinimumGrade
	return q
}
