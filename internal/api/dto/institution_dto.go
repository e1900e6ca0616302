package dto

import (
	"time"

	"github.com/careerhub/career-api/internal/domain"
)

// UpdateInstitutionRequest holds optional institution profile fields.
type UpdateInstitutionRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Description *string `json:"description"`
}

// CreateInstitutionRequest is an admin-created institution.
type CreateInstitutionRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Website     string `json:"website" validate:"omitempty,url"`
	Description string `json:"description"`
}

// CreateFacultyRequest adds a faculty.
type CreateFacultyRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// InstitutionResponse public institution view.
type InstitutionResponse struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Email              string                    `json:"email"`
	Phone              string                    `json:"phone"`
	Address            string                    `json:"address"`
	Website            string                    `json:"website"`
	Description        string                    `json:"description"`
	Status             domain.InstitutionStatus  `json:"status"`
	VerificationStatus domain.VerificationStatus `json:"verificationStatus"`
	CreatedAt          time.Time                 `json:"createdAt"`
	UpdatedAt          time.Time                 `json:"updatedAt"`
}

func NewInstitutionResponse(i *domain.Institution) InstitutionResponse {
	return InstitutionResponse{
		ID:                 i.ID,
		Name:               i.Name,
		Email:              i.Email,
		Phone:              i.Phone,
		Address:            i.Address,
		Website:            i.Website,
		Description:        i.Description,
		Status:             i.Status,
		VerificationStatus: i.VerificationStatus,
		CreatedAt:          i.CreatedAt,
		UpdatedAt:          i.UpdatedAt,
	}
}

func NewInstitutionList(items []domain.Institution) List[InstitutionResponse] {
	return NewList(mapSlice(items, NewInstitutionResponse))
}

// FacultyResponse faculty view.
type FacultyResponse struct {
	ID            string    `json:"id"`
	InstitutionID string    `json:"institutionId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewFacultyResponse(f *domain.Faculty) FacultyResponse {
	return FacultyResponse{
		ID:            f.ID,
		InstitutionID: f.InstitutionID,
		Name:          f.Name,
		Description:   f.Description,
		CreatedAt:     f.CreatedAt,
	}
}

func NewFacultyList(items []domain.Faculty) List[FacultyResponse] {
	return NewList(mapSlice(items, NewFacultyResponse))
}
