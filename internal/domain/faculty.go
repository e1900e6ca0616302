package domain

import (
	"strings"
	"time"
)

// Faculty groups courses within an institution.
type Faculty struct {
	ID            string    `json:"id,omitempty"`
	InstitutionID string    `json:"institutionId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewFaculty validates and builds a faculty.
func NewFaculty(institutionID, name, description string) (*Faculty, error) {
	errs := fieldErrors{}
	errs.require("institutionId", institutionID)
	errs.require("name", name)
	if err := errs.err(); err != nil {
		return nil, err
	}
	return &Faculty{
		InstitutionID: institutionID,
		Name:          strings.TrimSpace(name),
		Description:   strings.TrimSpace(description),
	}, nil
}
