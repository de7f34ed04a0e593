package models

import (
	"time"

	"divemanager/pkg/roles"

	"github.com/lib/pq"
)

type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Email              string     `json:"email"`
	LicenseNumber      string     `json:"license_number,omitempty"`
	CertificationLevel string     `json:"certification_level"`
	Role               roles.Role `json:"role"`
	TagCodes           []string   `json:"tag_codes"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
}

type FlatUserRecord struct {
	ID                 string         `db:"user_id"`
	Name               string         `db:"user_name"`
	Email              string         `db:"email"`
	LicenseNumber      string         `db:"license_number"`
	CertificationLevel string         `db:"certification_level"`
	Role               string         `db:"role"`
	TagCodes           pq.StringArray `db:"tag_codes"`
	IsActive           bool           `db:"is_active"`
	CreatedAt          time.Time      `db:"created_at"`
}

func (fu *FlatUserRecord) TransformToUser() User {
	return User{
		ID:                 fu.ID,
		Name:               fu.Name,
		Email:              fu.Email,
		LicenseNumber:      fu.LicenseNumber,
		CertificationLevel: fu.CertificationLevel,
		Role:               roles.Role(fu.Role),
		TagCodes:           fu.TagCodes,
		IsActive:           fu.IsActive,
		CreatedAt:          fu.CreatedAt,
	}
}
