package metadata

import "fmt"

// MovementType classifies one ledger entry.
type MovementType string

const (
	MovementCheckout    MovementType = "checkout"
	MovementCheckin     MovementType = "checkin"
	MovementMaintenance MovementType = "maintenance"
	MovementRetired     MovementType = "retired"
)

func NewMovementType(value string) (MovementType, error) {
	movementType := MovementType(value)
	if !movementType.isValid() {
		return "", fmt.Errorf("invalid movement type: %s", value)
	}
	return movementType, nil
}

func (t MovementType) isValid() bool {
	switch t {
	case MovementCheckout, MovementCheckin, MovementMaintenance, MovementRetired:
		return true
	default:
		return false
	}
}

func (t MovementType) String() string {
	return string(t)
}

// Method records how a custody transfer was captured at the desk.
type Method string

const (
	MethodManual Method = "manual"
	MethodQRScan Method = "qr_scan"
)

func NewMethod(value string) (Method, error) {
	method := Method(value)
	if !method.isValid() {
		return "", fmt.Errorf("invalid movement method: %s", value)
	}
	return method, nil
}

func (m Method) isValid() bool {
	switch m {
	case MethodManual, MethodQRScan:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}
