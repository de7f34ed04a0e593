package metadata

import "fmt"

// AssetStatus is the custody state of a piece of equipment.
type AssetStatus string

const (
	StatusAvailable   AssetStatus = "available"
	StatusCheckedOut  AssetStatus = "checked_out"
	StatusMaintenance AssetStatus = "maintenance"
	StatusRetired     AssetStatus = "retired"
	StatusDefective   AssetStatus = "defective"
)

func NewAssetStatus(value string) (AssetStatus, error) {
	status := AssetStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid asset status: %s", value)
	}
	return status, nil
}

func (s AssetStatus) isValid() bool {
	switch s {
	case StatusAvailable, StatusCheckedOut, StatusMaintenance, StatusRetired, StatusDefective:
		return true
	default:
		return false
	}
}

func (s AssetStatus) String() string {
	return string(s)
}
