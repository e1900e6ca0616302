package dto

import (
	"time"

	"github.com/careerhub/career-api/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Name            string `json:"name" validate:"required"`
	Role            string `json:"role" validate:"required,registrable_role"`
	Phone           string `json:"phone"`
	InstitutionName string `json:"institutionName"`
	CompanyName     string `json:"companyName"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// EmailRequest carries a single address, for resend and forgot-password.
type EmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest redeems a reset token.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// ChangePasswordRequest replaces the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// UpdateProfileRequest holds optional profile fields.
type UpdateProfileRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	Bio             *string `json:"bio" validate:"omitempty,max=1000"`
	Avatar          *string `json:"avatar"`
	InstitutionName *string `json:"institutionName"`
	CompanyName     *string `json:"companyName"`
}

// UserResponse is a user without password or token fields.
type UserResponse struct {
	ID              string            `json:"id"`
	Email           string            `json:"email"`
	Name            string            `json:"name"`
	Role            domain.Role       `json:"role"`
	Status          domain.UserStatus `json:"status"`
	IsVerified      bool              `json:"isVerified"`
	Profile         domain.Profile    `json:"profile"`
	InstitutionName string            `json:"institutionName,omitempty"`
	InstitutionID   string            `json:"institutionId,omitempty"`
	CompanyName     string            `json:"companyName,omitempty"`
	LastLogin       *time.Time        `json:"lastLogin,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewUserResponse strips sensitive fields from u.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Role:            u.Role,
		Status:          u.Status,
		IsVerified:      u.IsVerified,
		Profile:         u.Profile,
		InstitutionName: u.InstitutionName,
		InstitutionID:   u.InstitutionID,
		CompanyName:     u.CompanyName,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// NewUserList maps users to responses.
func NewUserList(users []domain.User) List[UserResponse] {
	return NewList(mapSlice(users, NewUserResponse))
}

// AuthResponse is an issued session.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// RegisterResponse reports the new account and whether mail went out.
type RegisterResponse struct {
	User              UserResponse `json:"user"`
	VerificationSent  bool         `json:"verificationEmailSent"`
	VerificationError string       `json:"verificationEmailError,omitempty"`
}
