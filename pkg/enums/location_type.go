package enums

import "fmt"

// LocationType classifies a geographic matching rule attached to a shipping
// zone. State codes are composite "COUNTRY:STATE" values.
type LocationType string

const (
	LocationTypeCountry   LocationType = "country"
	LocationTypeState     LocationType = "state"
	LocationTypeContinent LocationType = "continent"
)

var validLocationTypes = []LocationType{
	LocationTypeCountry,
	LocationTypeState,
	LocationTypeContinent,
}

// String implements fmt.Stringer.
func (l LocationType) String() string {
	return string(l)
}

// IsValid reports whether the location type is recognized.
func (l LocationType) IsValid() bool {
	for _, candidate := range validLocationTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocationType converts a raw string into a LocationType.
func ParseLocationType(value string) (LocationType, error) {
	for _, candidate := range validLocationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location type %q", value)
}
