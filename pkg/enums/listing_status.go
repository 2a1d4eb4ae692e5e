package enums

import "fmt"

// ListingStatus tracks whether a farmer listing can still be bought.
type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusSoldOut   ListingStatus = "sold_out"
	ListingStatusWithdrawn ListingStatus = "withdrawn"
)

var validListingStatuss = []ListingStatus{
	ListingStatusAvailable,
	ListingStatusSoldOut,
	ListingStatusWithdrawn,
}

// String implements fmt.Stringer.
func (l ListingStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known ListingStatus.
func (l ListingStatus) IsValid() bool {
	for _, candidate := range validListingStatuss {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseListingStatus converts raw input into a ListingStatus.
func ParseListingStatus(value string) (ListingStatus, error) {
	for _, candidate := range validListingStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid listing status %q", value)
}
