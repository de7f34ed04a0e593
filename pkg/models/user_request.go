package models

type CreateUserRequest struct {
	Name               string   `json:"name" binding:"required"`
	Email              string   `json:"email" binding:"required,email"`
	LicenseNumber      string   `json:"license_number"`
	CertificationLevel string   `json:"certification_level" binding:"required"`
	Role               string   `json:"role" binding:"required"`
	TagCodes           []string `json:"tag_codes" binding:"required,min=1"`
}

type UpdateUserRequest struct {
	Name               *string `json:"name"`
	Email              *string `json:"email"`
	LicenseNumber      *string `json:"license_number"`
	CertificationLevel *string `json:"certification_level"`
	Role               *string `json:"role"`
	IsActive           *bool   `json:"is_active"`
}

func (r *UpdateUserRequest) HasChanges() bool {
	return r.Name != nil || r.Email != nil || r.LicenseNumber != nil ||
		r.CertificationLevel != nil || r.Role != nil || r.IsActive != nil
}
