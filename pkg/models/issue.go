package models

import (
	"time"

	"divemanager/pkg/metadata"
)

type Issue struct {
	ID          string               `json:"id"`
	AssetID     string               `json:"asset_id"`
	AssetName   string               `json:"asset_name,omitempty"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	Severity    metadata.Severity    `json:"severity"`
	Status      metadata.IssueStatus `json:"status"`
	ReportedBy  string               `json:"reported_by"`
	ReportedAt  time.Time            `json:"reported_at"`
	AssignedTo  *string              `json:"assigned_to,omitempty"`
	ResolvedAt  *time.Time           `json:"resolved_at,omitempty"`
	ResolvedBy  *string              `json:"resolved_by,omitempty"`
	Resolution  *string              `json:"resolution,omitempty"`
}

type FlatIssueRecord struct {
	ID          string     `db:"issue_id"`
	AssetID     string     `db:"asset_id"`
	AssetName   string     `db:"asset_name"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Severity    string     `db:"severity"`
	Status      string     `db:"issue_status"`
	ReportedBy  string     `db:"reported_by"`
	ReportedAt  time.Time  `db:"reported_at"`
	AssignedTo  *string    `db:"assigned_to"`
	ResolvedAt  *time.Time `db:"resolved_at"`
	ResolvedBy  *string    `db:"resolved_by"`
	Resolution  *string    `db:"resolution"`
}

func (fi *FlatIssueRecord) TransformToIssue() Issue {
	return Issue{
		ID:          fi.ID,
		AssetID:     fi.AssetID,
		AssetName:   fi.AssetName,
		Title:       fi.Title,
		Description: fi.Description,
		Severity:    metadata.Severity(fi.Severity),
		Status:      metadata.IssueStatus(fi.Status),
		ReportedBy:  fi.ReportedBy,
		ReportedAt:  fi.ReportedAt,
		AssignedTo:  fi.AssignedTo,
		ResolvedAt:  fi.ResolvedAt,
		ResolvedBy:  fi.ResolvedBy,
		Resolution:  fi.Resolution,
	}
}
