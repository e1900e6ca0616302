package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// CompaniesHandler exposes the company dashboard endpoints.
type CompaniesHandler struct {
	companies *service.CompanyService
	jobs      *service.JobService
	validator *validation.Validator
}

// NewCompaniesHandler constructs handler.
func NewCompaniesHandler(companies *service.CompanyService, jobs *service.JobService, v *validation.Validator) *CompaniesHandler {
	return &CompaniesHandler{companies: companies, jobs: jobs, validator: v}
}

// Profile handles GET /api/companies/profile.
func (h *CompaniesHandler) Profile(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	profile, err := h.companies.Profile(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewCompanyProfileResponse(profile)))
}

// UpdateProfile handles PATCH /api/companies/profile.
func (h *CompaniesHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	updated, err := h.companies.UpdateProfile(c.UserContext(), user.ID, profileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Profile updated", dto.NewUserResponse(updated)))
}

// CreateJob handles POST /api/companies/jobs.
func (h *CompaniesHandler) CreateJob(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.CreateJobRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	job, err := h.jobs.Create(c.UserContext(), user, req.Input())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Job posted successfully", job))
}

// Jobs handles GET /api/companies/jobs.
func (h *CompaniesHandler) Jobs(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.jobs.ListForCompany(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewJobList(items)))
}

// UpdateJob handles PATCH /api/companies/jobs/:id.
func (h *CompaniesHandler) UpdateJob(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateJobRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	job, err := h.jobs.Update(c.UserContext(), user, c.Params("id"), req.Update())
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Job updated", job))
}

// UpdateJobStatus handles PATCH /api/companies/jobs/:id/status.
func (h *CompaniesHandler) UpdateJobStatus(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.JobStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	status := domain.JobStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	job, err := h.jobs.UpdateStatus(c.UserContext(), user, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Job status updated", job))
}

// Applicants handles GET /api/companies/jobs/:id/applications.
func (h *CompaniesHandler) Applicants(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	items, err := h.jobs.Applicants(c.UserContext(), user, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewApplicantList(items)))
}

// UpdateApplicationStatus handles PATCH /api/companies/applications/:id/status.
func (h *CompaniesHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.JobApplicationStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	status := domain.JobApplicationStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	app, err := h.jobs.UpdateApplicationStatus(c.UserContext(), user, c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Application status updated", app))
}
