package models

// CheckoutRequest hands an available asset to a member. PerformedBy is the
// staff member at the desk, not the member receiving the equipment.
type CheckoutRequest struct {
	AssetID     string `json:"asset_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	PerformedBy string `json:"performed_by" binding:"required"`
	Notes       string `json:"notes"`
	Method      string `json:"method"`
}

type CheckinRequest struct {
	AssetID          string `json:"asset_id" binding:"required"`
	UserID           string `json:"user_id" binding:"required"`
	PerformedBy      string `json:"performed_by" binding:"required"`
	Notes            string `json:"notes"`
	HasIssues        bool   `json:"has_issues"`
	IssueDescription string `json:"issue_description"`
	Method           string `json:"method"`
}

type CreateIssueRequest struct {
	AssetID     string `json:"asset_id" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Severity    string `json:"severity"`
	ReportedBy  string `json:"reported_by" binding:"required"`
}

type UpdateIssueStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	ResolvedBy *string `json:"resolved_by"`
	Resolution *string `json:"resolution"`
}
