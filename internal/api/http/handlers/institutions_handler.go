package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// InstitutionsHandler serves the public catalogue and institution accounts.
type InstitutionsHandler struct {
	institutions *service.InstitutionService
	validator    *validation.Validator
}

// NewInstitutionsHandler constructs handler.
func NewInstitutionsHandler(institutions *service.InstitutionService, v *validation.Validator) *InstitutionsHandler {
	return &InstitutionsHandler{institutions: institutions, validator: v}
}

// List handles GET /api/institutions.
func (h *InstitutionsHandler) List(c *fiber.Ctx) error {
	items, err := h.institutions.ListPublic(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewInstitutionList(items)))
}

// Get handles GET /api/institutions/:id.
func (h *InstitutionsHandler) Get(c *fiber.Ctx) error {
	inst, err := h.institutions.GetPublic(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewInstitutionResponse(inst)))
}

// Courses handles GET /api/institutions/:id/courses.
func (h *InstitutionsHandler) Courses(c *fiber.Ctx) error {
	items, err := h.institutions.Courses(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewCourseList(items)))
}

// Faculties handles GET /api/institutions/:id/faculties.
func (h *InstitutionsHandler) Faculties(c *fiber.Ctx) error {
	items, err := h.institutions.Faculties(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewFacultyList(items)))
}

// Mine handles GET /api/institutions/me.
func (h *InstitutionsHandler) Mine(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	inst, err := h.institutions.Mine(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewInstitutionResponse(inst)))
}

// UpdateMine handles PATCH /api/institutions/me.
func (h *InstitutionsHandler) UpdateMine(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInstitutionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	inst, err := h.institutions.UpdateMine(c.UserContext(), user, service.InstitutionUpdate{
		Name:        req.Name,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Institution updated", dto.NewInstitutionResponse(inst)))
}

// AddFaculty handles POST /api/institutions/me/faculties.
func (h *InstitutionsHandler) AddFaculty(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CreateFacultyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	faculty, err := h.institutions.AddFaculty(c.UserContext(), user, req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Faculty created", dto.NewFacultyResponse(faculty)))
}

// AddCourse handles POST /api/institutions/me/courses.
func (h *InstitutionsHandler) AddCourse(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CreateCourseRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	course, err := h.institutions.AddCourse(c.UserContext(), user, domain.NewCourseInput{
		FacultyID:    strings.TrimSpace(req.FacultyID),
		Name:         req.Name,
		Description:  req.Description,
		Requirements: req.Requirements.Requirements(),
		Duration:     req.Duration,
		Fees:         req.Fees,
		Seats:        req.Seats,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Course created", dto.NewCourseResponse(course)))
}

// UpdateCourse handles PATCH /api/institutions/me/courses/:courseId.
func (h *InstitutionsHandler) UpdateCourse(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCourseRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	update := service.CourseUpdate{
		FacultyID:   req.FacultyID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Fees:        req.Fees,
		Seats:       req.Seats,
	}
	if req.Requirements != nil {
		r := req.Requirements.Requirements()
		update.Requirements = &r
	}
	if req.Status != nil {
		status := domain.CourseStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
		update.Status = &status
	}
	course, err := h.institutions.UpdateCourse(c.UserContext(), user, c.Params("courseId"), update)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Course updated", dto.NewCourseResponse(course)))
}

// DeleteCourse handles DELETE /api/institutions/me/courses/:courseId.
func (h *InstitutionsHandler) DeleteCourse(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.institutions.DeleteCourse(c.UserContext(), user, c.Params("courseId")); err != nil {
		return err
	}
	return c.JSON(dto.Msg("Course deleted", nil))
}
