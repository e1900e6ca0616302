package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourse(t *testing.T) {
	course, err := NewCourse(NewCourseInput{
		InstitutionID: "inst-1",
		Name:          " Software Engineering ",
		Seats:         2,
		Requirements:  Requirements{Subjects: []string{"Math", " ", "Physics"}, MinimumGrade: 65},
	})
	require.NoError(t, err)
	assert.Equal(t, "Software Engineering", course.Name)
	assert.Equal(t, 2, course.AvailableSeats)
	assert.Equal(t, CourseStatusOpen, course.Status)
	assert.Equal(t, []string{"Math", "Physics"}, course.Requirements.Subjects)

	_, err = NewCourse(NewCourseInput{Name: "x", Seats: -1, Requirements: Requirements{MinimumGrade: 120}})
	assert.Error(t, err)
}

func TestCourseTakeSeat(t *testing.T) {
	course := &Course{Seats: 2, AvailableSeats: 2, Status: CourseStatusOpen}

	course.TakeSeat()
	assert.Equal(t, 1, course.AvailableSeats)
	assert.True(t, course.AcceptsApplications())

	course.TakeSeat()
	assert.Equal(t, 0, course.AvailableSeats)
	assert.Equal(t, CourseStatusClosed, course.Status)
	assert.False(t, course.AcceptsApplications())

	unlimited := &Course{Status: CourseStatusOpen}
	unlimited.TakeSeat()
	assert.Equal(t, CourseStatusOpen, unlimited.Status)
}

func TestNewApplicationFollowsCourseStatus(t *testing.T) {
	now := time.Now()
	open := &Course{ID: "c1", InstitutionID: "i1", Status: CourseStatusOpen}
	app, err := NewApplication("s1", open, "", now)
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusPending, app.Status)
	assert.Equal(t, "i1", app.InstitutionID)

	waitlisted := &Course{ID: "c2", InstitutionID: "i1", Status: CourseStatusWaitlist}
	app, err = NewApplication("s1", waitlisted, "", now)
	require.NoError(t, err)
	assert.Equal(t, ApplicationStatusWaitlist, app.Status)

	_, err = NewApplication("", nil, "", now)
	assert.Error(t, err)
}

func TestParseApplicationStatus(t *testing.T) {
	tests := map[string]ApplicationStatus{
		"pending":   ApplicationStatusPending,
		"Admitted":  ApplicationStatusAdmitted,
		"approved":  ApplicationStatusAdmitted,
		" waitlist": ApplicationStatusWaitlist,
		"rejected":  ApplicationStatusRejected,
	}
	for in, want := range tests {
		got, ok := ParseApplicationStatus(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseApplicationStatus("accepted")
	assert.False(t, ok)
}

func TestJobAcceptsApplications(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, (&Job{Status: JobStatusOpen}).AcceptsApplications(now))
	assert.True(t, (&Job{Status: JobStatusOpen, Deadline: &future}).AcceptsApplications(now))
	assert.False(t, (&Job{Status: JobStatusOpen, Deadline: &past}).AcceptsApplications(now))
	assert.False(t, (&Job{Status: JobStatusClosed}).AcceptsApplications(now))

	_, err := NewJob(NewJobInput{CompanyID: "c", Title: "t", Description: "d", Deadline: &past}, now)
	assert.Error(t, err)
}

func TestCourseReleaseSeat(t *testing.T) {
	course := &Course{Seats: 1, AvailableSeats: 1, Status: CourseStatusOpen}
	course.TakeSeat()
	assert.False(t, course.HasFreeSeat())

	course.ReleaseSeat()
	assert.Equal(t, 1, course.AvailableSeats)
	assert.Equal(t, CourseStatusClosed, course.Status)
	course.ReleaseSeat()
	assert.Equal(t, 1, course.AvailableSeats)

	assert.True(t, (&Course{}).HasFreeSeat())
}
