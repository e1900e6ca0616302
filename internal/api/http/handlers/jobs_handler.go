package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// JobsHandler exposes the public job board.
type JobsHandler struct {
	jobs      *service.JobService
	validator *validation.Validator
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobs *service.JobService, v *validation.Validator) *JobsHandler {
	return &JobsHandler{jobs: jobs, validator: v}
}

// List handles GET /api/jobs?companyId=&status=.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	items, err := h.jobs.List(c.UserContext(), service.JobQuery{
		CompanyID: c.Query("companyId"),
		Status:    c.Query("status"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewJobList(items)))
}

// Get handles GET /api/jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	job, err := h.jobs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(job))
}

// Apply handles POST /api/jobs/apply.
func (h *JobsHandler) Apply(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.JobApplyRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	app, err := h.jobs.Apply(c.UserContext(), user, req.JobID, req.CoverLetter)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Application submitted successfully", app))
}
