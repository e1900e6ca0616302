package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// ApplicationsHandler exposes course application endpoints.
type ApplicationsHandler struct {
	applications *service.ApplicationService
	validator    *validation.Validator
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applications *service.ApplicationService, v *validation.Validator) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, validator: v}
}

// Create handles POST /api/applications.
func (h *ApplicationsHandler) Create(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ApplyCourseRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	app, err := h.applications.Apply(c.UserContext(), user, req.CourseID, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Application submitted successfully", dto.NewApplicationResponse(app)))
}

// List handles GET /api/applications?status=.
func (h *ApplicationsHandler) List(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	status, err := service.ParseStatusFilter(c.Query("status"))
	if err != nil {
		return err
	}
	items, err := h.applications.List(c.UserContext(), user, status)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewApplicationList(items)))
}

// Get handles GET /api/applications/:id.
func (h *ApplicationsHandler) Get(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	app, err := h.applications.Get(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewApplicationResponse(app)))
}

// UpdateStatus handles PATCH /api/applications/:id/status.
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	app, err := h.applications.UpdateStatus(c.UserContext(), user, c.Params("id"), req.Status, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Application status updated", dto.NewApplicationResponse(app)))
}

// Withdraw handles DELETE /api/applications/:id.
func (h *ApplicationsHandler) Withdraw(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.applications.Withdraw(c.UserContext(), user, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.Msg("Application withdrawn", nil))
}
