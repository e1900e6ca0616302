package dto

// UserStatusRequest changes an account status.
type UserStatusRequest struct {
	Status string `json:"status" validate:"required,user_status"`
}

// InstitutionStatusRequest changes an institution status.
type InstitutionStatusRequest struct {
	Status string `json:"status" validate:"required,institution_status"`
}
