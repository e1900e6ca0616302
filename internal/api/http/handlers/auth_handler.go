package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/careerhub/career-api/internal/api/dto"
	"github.com/careerhub/career-api/internal/domain"
	"github.com/careerhub/career-api/internal/service"
	"github.com/careerhub/career-api/internal/validation"
	apperrors "github.com/careerhub/career-api/pkg/util"
)

// AuthHandler exposes account endpoints.
type AuthHandler struct {
	auth      *service.AuthService
	validator *validation.Validator
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, v *validation.Validator) *AuthHandler {
	return &AuthHandler{auth: authService, validator: v}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		Role:            domain.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		Phone:           req.Phone,
		InstitutionName: req.InstitutionName,
		CompanyName:     req.CompanyName,
	})
	if err != nil {
		return err
	}

	message := "Registration successful. Please check your email to verify your account."
	if !result.Email.Success {
		message = "Registration successful, but the verification email could not be sent. Request a new link to verify your account."
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Msg(message, dto.RegisterResponse{
		User:              dto.NewUserResponse(result.User),
		VerificationSent:  result.Email.Success,
		VerificationError: result.Email.Error,
	}))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}

	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Login successful", dto.AuthResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      dto.NewUserResponse(result.User),
	}))
}

// VerifyEmail handles GET /api/auth/verify-email?token=.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		return apperrors.NewBadRequest("Verification token is required")
	}
	user, err := h.auth.VerifyEmail(c.UserContext(), token)
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Email verified successfully. You can now log in.", dto.NewUserResponse(user)))
}

// ResendVerification handles POST /api/auth/resend-verification.
func (h *AuthHandler) ResendVerification(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	result, err := h.auth.ResendVerification(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	if !result.Success {
		return c.JSON(dto.Msg("A new verification link was issued, but the email could not be sent.",
			fiber.Map{"emailSent": false, "error": result.Error}))
	}
	return c.JSON(dto.Msg("Verification email sent", fiber.Map{"emailSent": true}))
}

// ForgotPassword handles POST /api/auth/forgot-password. The response is
// the same whether or not the address belongs to an account.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.EmailRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(dto.Msg("If an account exists for that email, a password reset link has been sent.", nil))
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.Msg("Password reset successful. You can now log in.", nil))
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	fresh, err := h.auth.Me(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(dto.NewUserResponse(fresh)))
}

// UpdateProfile handles PATCH /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	updated, err := h.auth.UpdateProfile(c.UserContext(), user.ID, profileUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(dto.Msg("Profile updated", dto.NewUserResponse(updated)))
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user, err := caller(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := bind(c, h.validator, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), user.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.Msg("Password changed successfully", nil))
}

func profileUpdate(req dto.UpdateProfileRequest) service.ProfileUpdate {
	return service.ProfileUpdate{
		Name:            req.Name,
		Phone:           req.Phone,
		Address:         req.Address,
		Bio:             req.Bio,
		Avatar:          req.Avatar,
		InstitutionName: req.InstitutionName,
		CompanyName:     req.CompanyName,
	}
}
