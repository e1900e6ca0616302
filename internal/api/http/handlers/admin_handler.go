package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
)

// AdminHandler exposes moderation and reporting endpoints.
type AdminHandler struct {
	admin     *service.AdminService
	validator *validation.Validator
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, v *validation.Validator) *AdminHandler {
	return &AdminHandler{admin: admin, validator: v}
}

// Users handles GET /api/admin/users?role=&status=.
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	items, err := h.admin.ListUsers(c.UserContext(), c.Query("role"), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserList(items)))
}

// UpdateUserStatus handles PATCH /api/admin/users/:id/status.
func (h *AdminHandler) UpdateUserStatus(c *fiber.Ctx) error {
	admin, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UserStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.admin.UpdateUserStatus(c.UserContext(), admin, c.Params("id"), userStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("User status updated", dto.NewUserResponse(user)))
}

// Institutions handles GET /api/admin/institutions?status=.
func (h *AdminHandler) Institutions(c *fiber.Ctx) error {
	items, err := h.admin.ListInstitutions(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewInstitutionList(items)))
}

// CreateInstitution handles POST /api/admin/institutions.
func (h *AdminHandler) CreateInstitution(c *fiber.Ctx) error {
	var req dto.CreateInstitutionRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	inst, err := h.admin.CreateInstitution(c.UserContext(), service.InstitutionInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Website:     req.Website,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg("Institution created", dto.NewInstitutionResponse(inst)))
}

// UpdateInstitutionStatus handles PATCH /api/admin/institutions/:id/status.
func (h *AdminHandler) UpdateInstitutionStatus(c *fiber.Ctx) error {
	var req dto.InstitutionStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	status := domain.InstitutionStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	inst, err := h.admin.UpdateInstitutionStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Institution status updated", dto.NewInstitutionResponse(inst)))
}

// Companies handles GET /api/admin/companies?status=.
func (h *AdminHandler) Companies(c *fiber.Ctx) error {
	items, err := h.admin.ListCompanies(c.UserContext(), c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserList(items)))
}

// UpdateCompanyStatus handles PATCH /api/admin/companies/:id/status.
func (h *AdminHandler) UpdateCompanyStatus(c *fiber.Ctx) error {
	var req dto.UserStatusRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	user, err := h.admin.UpdateCompanyStatus(c.UserContext(), c.Params("id"), userStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Company status updated", dto.NewUserResponse(user)))
}

// Reports handles GET /api/admin/reports.
func (h *AdminHandler) Reports(c *fiber.Ctx) error {
	report, err := h.admin.Reports(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(report))
}

func userStatus(raw string) domain.UserStatus {
	return domain.UserStatus(strings.ToLower(strings.TrimSpace(raw)))
}
