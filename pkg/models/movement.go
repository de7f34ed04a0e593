package models

import (
	"time"

	"divemanager/pkg/metadata"
)

// Movement is one row of the append-only custody ledger. Asset and user
// names are denormalized at read time only; the row stores ids.
type Movement struct {
	ID               string                `json:"id"`
	AssetID          string                `json:"asset_id"`
	AssetName        string                `json:"asset_name,omitempty"`
	UserID           string                `json:"user_id"`
	UserName         string                `json:"user_name,omitempty"`
	Type             metadata.MovementType `json:"type"`
	MovementDate     time.Time             `json:"date"`
	Notes            string                `json:"notes,omitempty"`
	PerformedBy      string                `json:"performed_by"`
	HasIssues        bool                  `json:"has_issues"`
	IssueDescription string                `json:"issue_description,omitempty"`
	Method           metadata.Method       `json:"method"`
}

type FlatMovementRecord struct {
	ID               string    `db:"movement_id"`
	AssetID          string    `db:"asset_id"`
	AssetName        string    `db:"asset_name"`
	UserID           string    `db:"user_id"`
	UserName         string    `db:"user_name"`
	Type             string    `db:"movement_type"`
	MovementDate     time.Time `db:"movement_date"`
	Notes            string    `db:"notes"`
	PerformedBy      string    `db:"performed_by"`
	HasIssues        bool      `db:"has_issues"`
	IssueDescription string    `db:"issue_description"`
	Method           string    `db:"method"`
}

func (fm *FlatMovementRecord) TransformToMovement() Movement {
	return Movement{
		ID:               fm.ID,
		AssetID:          fm.AssetID,
		AssetName:        fm.AssetName,
		UserID:           fm.UserID,
		UserName:         fm.UserName,
		Type:             metadata.MovementType(fm.Type),
		MovementDate:     fm.MovementDate,
		Notes:            fm.Notes,
		PerformedBy:      fm.PerformedBy,
		HasIssues:        fm.HasIssues,
		IssueDescription: fm.IssueDescription,
		Method:           metadata.Method(fm.Method),
	}
}
