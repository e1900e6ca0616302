package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// StudentsHandler exposes the student dashboard endpoints.
type StudentsHandler struct {
	students      *service.StudentService
	applications  *service.ApplicationService
	jobs          *service.JobService
	notifications *service.NotificationService
	validator     *validation.Validator
}

// StudentsHandlerDeps bundles services used by StudentsHandler.
type StudentsHandlerDeps struct {
	Students      *service.StudentService
	Applications  *service.ApplicationService
	Jobs          *service.JobService
	Notifications *service.NotificationService
	Validator     *validation.Validator
}

// NewStudentsHandler constructs handler.
func NewStudentsHandler(deps StudentsHandlerDeps) *StudentsHandler {
	return &StudentsHandler{
		students:      deps.Students,
		applications:  deps.Applications,
		jobs:          deps.Jobs,
		notifications: deps.Notifications,
		validator:     deps.Validator,
	}
}

// Profile handles GET /api/students/profile.
func (h *StudentsHandler) Profile(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	profile, err := h.students.Profile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewStudentProfileResponse(profile)))
}

// SaveTranscript handles PUT /api/students/transcript.
func (h *StudentsHandler) SaveTranscript(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.TranscriptRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	transcript, err := h.students.SaveTranscript(c.UserContext(), user.ID, req.DomainGrades())
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Transcript saved", transcript))
}

// Transcript handles GET /api/students/transcript.
func (h *StudentsHandler) Transcript(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	transcript, err := h.students.Transcript(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(transcript))
}

// QualifiedCourses handles GET /api/students/courses/qualified. Pass
// all=true to include courses the student does not qualify for.
func (h *StudentsHandler) QualifiedCourses(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.students.QualifiedCourses(c.UserContext(), user.ID, c.QueryBool("all", false))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewEligibleCourseList(items)))
}

// Applications handles GET /api/students/applications.
func (h *StudentsHandler) Applications(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.applications.ListForStudent(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewApplicationList(items)))
}

// JobApplications handles GET /api/students/job-applications.
func (h *StudentsHandler) JobApplications(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.jobs.ListForStudent(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewStudentJobApplicationList(items)))
}

// Notifications handles GET /api/students/notifications?unread=true.
func (h *StudentsHandler) Notifications(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.notifications.ListForUser(c.UserContext(), user.ID, c.QueryBool("unread", false))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewNotificationList(items)))
}

// MarkNotificationRead handles PATCH /api/students/notifications/:id/read.
func (h *StudentsHandler) MarkNotificationRead(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.UserContext(), user.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(n))
}
