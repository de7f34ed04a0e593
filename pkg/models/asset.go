package models

import (
	"time"

	"divemanager/pkg/metadata"

	"github.com/lib/pq"
)

type Asset struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	SerialNumber  string               `json:"serial_number"`
	AssetTag      string               `json:"asset_tag"`
	Category      string               `json:"category"`
	Model         string               `json:"model,omitempty"`
	Manufacturer  string               `json:"manufacturer,omitempty"`
	Status        metadata.AssetStatus `json:"status"`
	AssignedTo    *AssetAssignee       `json:"assigned_to,omitempty"`
	Location      string               `json:"location"`
	Notes         string               `json:"notes,omitempty"`
	HasIssues     bool                 `json:"has_issues"`
	IssueCount    int                  `json:"issue_count"`
	LastIssueDate *time.Time           `json:"last_issue_date,omitempty"`
	TagCodes      []string             `json:"tag_codes"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// AssetAssignee is the resolved holder of a checked-out asset.
type AssetAssignee struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type FlatAssetRecord struct {
	ID             string         `db:"asset_id"`
	Name           string         `db:"asset_name"`
	SerialNumber   string         `db:"serial_number"`
	AssetTag       string         `db:"asset_tag"`
	Category       string         `db:"category"`
	Model          string         `db:"model"`
	Manufacturer   string         `db:"manufacturer"`
	Status         string         `db:"status"`
	AssignedToID   *string        `db:"assigned_to_user_id"`
	AssignedToName *string        `db:"assigned_to_name"`
	Location       string         `db:"location"`
	Notes          string         `db:"notes"`
	HasIssues      bool           `db:"has_issues"`
	IssueCount     int            `db:"issue_count"`
	LastIssueDate  *time.Time     `db:"last_issue_date"`
	TagCodes       pq.StringArray `db:"tag_codes"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (fa *FlatAssetRecord) TransformToAsset() Asset {
	asset := Asset{
		ID:            fa.ID,
		Name:          fa.Name,
		SerialNumber:  fa.SerialNumber,
		AssetTag:      fa.AssetTag,
		Category:      fa.Category,
		Model:         fa.Model,
		Manufacturer:  fa.Manufacturer,
		Status:        metadata.AssetStatus(fa.Status),
		Location:      fa.Location,
		Notes:         fa.Notes,
		HasIssues:     fa.HasIssues,
		IssueCount:    fa.IssueCount,
		LastIssueDate: fa.LastIssueDate,
		TagCodes:      fa.TagCodes,
		CreatedAt:     fa.CreatedAt,
		UpdatedAt:     fa.UpdatedAt,
	}

	if fa.AssignedToID != nil {
		assignee := AssetAssignee{ID: *fa.AssignedToID}
		if fa.AssignedToName != nil {
			assignee.Name = *fa.AssignedToName
		}
		asset.AssignedTo = &assignee
	}

	return asset
}
