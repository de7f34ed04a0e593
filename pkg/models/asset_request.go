package models

type CreateAssetRequest struct {
	Name         string   `json:"name" binding:"required"`
	SerialNumber string   `json:"serial_number" binding:"required"`
	AssetTag     string   `json:"asset_tag" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	Location     string   `json:"location" binding:"required"`
	Notes        string   `json:"notes"`
	TagCodes     []string `json:"tag_codes" binding:"required,min=1"`
}

// UpdateAssetRequest carries administrative field edits. Custody state is
// owned by the checkout/check-in flow and is not editable here.
type UpdateAssetRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Model        *string `json:"model"`
	Manufacturer *string `json:"manufacturer"`
	Location     *string `json:"location"`
	Notes        *string `json:"notes"`
}

func (r *UpdateAssetRequest) HasChanges() bool {
	return r.Name != nil || r.Category != nil || r.Model != nil ||
		r.Manufacturer != nil || r.Location != nil || r.Notes != nil
}

type AssetFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	Category string `form:"category"`
}
