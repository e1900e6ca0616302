package domain

import (
	"strings"
	"time"
)

// UserStatus represents lifecycle states for an account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusPending   UserStatus = "pending"
)

// Valid reports whether s is a known user status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserStatusActive, UserStatusSuspended, UserStatusPending:
		return true
	}
	return false
}

// Profile holds optional contact details shown on a user's page.
type Profile struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
	Avatar  string `json:"avatar"`
}

// User is an account of any role. Token fields are cleared, never omitted,
// so that partial document updates overwrite them.
type User struct {
	ID                  string     `json:"id,omitempty"`
	Email               string     `json:"email"`
	Password            string     `json:"password"`
	Name                string     `json:"name"`
	Role                Role       `json:"role"`
	Status              UserStatus `json:"status"`
	IsVerified          bool       `json:"isVerified"`
	VerificationToken   string     `json:"verificationToken"`
	VerificationExpires *time.Time `json:"verificationExpires"`
	ResetToken          string     `json:"resetToken"`
	ResetExpires        *time.Time `json:"resetExpires"`
	Profile             Profile    `json:"profile"`
	InstitutionName     string     `json:"institutionName,omitempty"`
	InstitutionID       string     `json:"institutionId,omitempty"`
	CompanyName         string     `json:"companyName,omitempty"`
	LastLogin           *time.Time `json:"lastLogin"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// NewUserInput carries registration data.
type NewUserInput struct {
	Email           string
	PasswordHash    string
	Name            string
	Role            Role
	InstitutionName string
	CompanyName     string
	Phone           string
}

// NewUser builds an active, unverified account.
func NewUser(in NewUserInput) (*User, error) {
	errs := fieldErrors{}
	email := NormalizeEmail(in.Email)
	if !ValidEmail(email) {
		errs.add("email", "must be a valid email address")
	}
	errs.require("name", in.Name)
	errs.require("password", in.PasswordHash)
	if !in.Role.Valid() {
		errs.add("role", "must be one of student, institution, company, admin")
	}
	if in.Role == RoleInstitution && strings.TrimSpace(in.InstitutionName) == "" {
		in.InstitutionName = in.Name
	}
	if in.Role == RoleCompany && strings.TrimSpace(in.CompanyName) == "" {
		in.CompanyName = in.Name
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	user := &User{
		Email:    email,
		Password: in.PasswordHash,
		Name:     strings.TrimSpace(in.Name),
		Role:     in.Role,
		Status:   UserStatusActive,
		Profile:  Profile{Phone: strings.TrimSpace(in.Phone)},
	}
	switch in.Role {
	case RoleInstitution:
		user.InstitutionName = strings.TrimSpace(in.InstitutionName)
	case RoleCompany:
		user.CompanyName = strings.TrimSpace(in.CompanyName)
	}
	return user, nil
}

// DisplayName returns the organisation name for institution and company
// accounts and the personal name otherwise.
func (u *User) DisplayName() string {
	switch {
	case u.Role == RoleInstitution && u.InstitutionName != "":
		return u.InstitutionName
	case u.Role == RoleCompany && u.CompanyName != "":
		return u.CompanyName
	}
	return u.Name
}

// SetVerificationToken arms a new email verification token.
func (u *User) SetVerificationToken(token string, expires time.Time) {
	u.VerificationToken = token
	u.VerificationExpires = &expires
}

// MarkVerified consumes the verification token.
func (u *User) MarkVerified() {
	u.IsVerified = true
	u.VerificationToken = ""
	u.VerificationExpires = nil
}

// SetResetToken arms a new password reset token.
func (u *User) SetResetToken(token string, expires time.Time) {
	u.ResetToken = token
	u.ResetExpires = &expires
}

// ClearResetToken consumes the reset token.
func (u *User) ClearResetToken() {
	u.ResetToken = ""
	u.ResetExpires = nil
}
