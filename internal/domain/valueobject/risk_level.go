package valueobject

import "fmt"

// RiskLevel is an immutable value object for the vegetation risk class.
type RiskLevel struct {
	value string
	code  int
}

var (
	RiskLevelLow    = RiskLevel{value: "Low", code: 0}
	RiskLevelMedium = RiskLevel{value: "Medium", code: 1}
	RiskLevelHigh   = RiskLevel{value: "High", code: 2}
)

// RiskLevelFromCode maps a classifier class index onto a RiskLevel.
func RiskLevelFromCode(code int) (RiskLevel, error) {
	switch code {
	case 0:
		return RiskLevelLow, nil
	case 1:
		return RiskLevelMedium, nil
	case 2:
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level code: %d", code)
	}
}

// RiskLevelFromString reconstructs a RiskLevel from its label.
func RiskLevelFromString(s string) (RiskLevel, error) {
	for _, l := range []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh} {
		if l.value == s {
			return l, nil
		}
	}
	return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
}

// String returns the label: Low, Medium or High.
func (r RiskLevel) String() string {
	return r.value
}

// Code returns the class index 0, 1 or 2.
func (r RiskLevel) Code() int {
	return r.code
}

// ActionRequired returns the follow-up urgency for this level.
func (r RiskLevel) ActionRequired() ActionRequired {
	switch r {
	case RiskLevelHigh:
		return ActionHigh
	case RiskLevelMedium:
		return ActionModerate
	default:
		return ActionNone
	}
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r == other
}

// ActionRequired is the follow-up urgency attached to a risk prediction.
type ActionRequired string

const (
	ActionNone     ActionRequired = "none"
	ActionModerate ActionRequired = "moderate"
	ActionHigh     ActionRequired = "high"
)
