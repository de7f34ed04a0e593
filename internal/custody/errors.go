package custody

import (
	"fmt"

	"divemanager/pkg/metadata"
)

// NotFoundError means the asset or user id did not resolve to a row.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// InvalidTransitionError means the asset was not in the source state the
// requested operation needs. Current carries the state actually observed so
// callers can say why the equipment is unavailable.
type InvalidTransitionError struct {
	Current metadata.AssetStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("asset is not in a valid state for this transition (current status: %s)", e.Current)
}

// WrongHolderError rejects a check-in by someone other than the member the
// asset is assigned to.
type WrongHolderError struct {
	Holder string
}

func (e *WrongHolderError) Error() string {
	return fmt.Sprintf("asset is assigned to %s", e.Holder)
}
