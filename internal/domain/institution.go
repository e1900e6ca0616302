package domain

import (
	"strings"
	"time"
)

// InstitutionStatus controls whether an institution is listed publicly.
type InstitutionStatus string

const (
	InstitutionStatusActive    InstitutionStatus = "active"
	InstitutionStatusPending   InstitutionStatus = "pending"
	InstitutionStatusSuspended InstitutionStatus = "suspended"
)

// Valid reports whether s is a known institution status.
func (s InstitutionStatus) Valid() bool {
	switch s {
	case InstitutionStatusActive, InstitutionStatusPending, InstitutionStatusSuspended:
		return true
	}
	return false
}

// VerificationStatus records the outcome of an admin review.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// Institution is a school, college or university offering courses.
type Institution struct {
	ID                 string             `json:"id,omitempty"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	Phone              string             `json:"phone"`
	Address            string             `json:"address"`
	Website            string             `json:"website"`
	Description        string             `json:"description"`
	Status             InstitutionStatus  `json:"status"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	OwnerID            string             `json:"ownerId,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// NewInstitution builds a pending, unverified institution.
func NewInstitution(name, email string) (*Institution, error) {
	errs := fieldErrors{}
	errs.require("name", name)
	email = NormalizeEmail(email)
	if !ValidEmail(email) {
		errs.add("email", "must be a valid email address")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &Institution{
		Name:               strings.TrimSpace(name),
		Email:              email,
		Status:             InstitutionStatusPending,
		VerificationStatus: VerificationPending,
	}, nil
}

// SetStatus applies an admin decision. Activating an institution verifies it.
func (i *Institution) SetStatus(status InstitutionStatus) {
	i.Status = status
	if status == InstitutionStatusActive {
		i.VerificationStatus = VerificationVerified
	}
}

// IsActive reports whether the institution may publish courses.
func (i *Institution) IsActive() bool {
	return i.Status == InstitutionStatusActive
}
