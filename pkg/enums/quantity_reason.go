package enums

import "fmt"

// QuantityReason explains why a requested quantity was not admitted to a cart.
type QuantityReason string

const (
	QuantityReasonBelowMinimum     QuantityReason = "below_minimum"
	QuantityReasonExceedsAvailable QuantityReason = "exceeds_available"
)

var validQuantityReasons = []QuantityReason{
	QuantityReasonBelowMinimum,
	QuantityReasonExceedsAvailable,
}

// String implements fmt.Stringer.
func (q QuantityReason) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QuantityReason.
func (q QuantityReason) IsValid() bool {
	for _, candidate := range validQuantityReasons {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQuantityReason converts raw input into a QuantityReason.
func ParseQuantityReason(value string) (QuantityReason, error) {
	for _, candidate := range validQuantityReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quantity reason %q", value)
}
