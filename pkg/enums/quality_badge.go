package enums

import "fmt"

// QualityBadge is the freshness label shown next to a listing.
type QualityBadge string

const (
	QualityBadgeFresh QualityBadge = "fresh"
	QualityBadgeGood  QualityBadge = "good"
	QualityBadgeFair  QualityBadge = "fair"
)

var validQualityBadges = []QualityBadge{
	QualityBadgeFresh,
	QualityBadgeGood,
	QualityBadgeFair,
}

// String implements fmt.Stringer.
func (q QualityBadge) String() string {
	return string(q)
}

// IsValid reports whether the value is a known QualityBadge.
func (q QualityBadge) IsValid() bool {
	for _, candidate := range validQualityBadges {
		if candidate == q {
			return true
		}
	}
	return false
}

// ParseQualityBadge converts raw input into a QualityBadge.
func ParseQualityBadge(value string) (QualityBadge, error) {
	for _, candidate := range validQualityBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid quality badge %q", value)
}
