package pricing

import "github.com/olivara/storefront-backend/pkg/enums"

// Location match priorities, most specific first. A locationless zone only
// qualifies as the id-0 "rest of world" fallback.
const (
	matchPriorityState     = 3
	matchPriorityCountry   = 2
	matchPriorityContinent = 1
	matchPriorityFallback  = 0
	matchPriorityNone      = -1
)

// euCountries enumerates the EU membership set, the only continent the
// storefront ships under a continent-level zone location.
var euCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "HR": {}, "CY": {}, "CZ": {}, "DK": {},
	"EE": {}, "FI": {}, "FR": {}, "DE": {}, "GR": {}, "HU": {}, "IE": {},
	"IT": {}, "LV": {}, "LT": {}, "LU": {}, "MT": {}, "NL": {}, "PL": {},
	"PT": {}, "RO": {}, "SK": {}, "SI": {}, "ES": {}, "SE": {},
}

// ResolveZone selects the single best-matching shipping zone for the
// destination. Each zone contributes its highest-priority location match;
// the overall winner is the highest priority across zones, with declaration
// order breaking ties. Returns nil when no zone matches at all, which is
// distinct from matching the id-0 fallback zone.
func ResolveZone(zones []Zone, country, state string) *Zone {
	bestPriority := matchPriorityNone
	bestIndex := -1

	for i := range zones {
		priority := zoneMatchPriority(&zones[i], country, state)
		if priority > bestPriority {
			bestPriority = priority
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return nil
	}
	return &zones[bestIndex]
}

func zoneMatchPriority(zone *Zone, country, state string) int {
	if len(zone.Locations) == 0 {
		if zone.ID == 0 {
			return matchPriorityFallback
		}
		return matchPriorityNone
	}

	best := matchPriorityNone
	for _, location := range zone.Locations {
		priority := locationMatchPriority(location, country, state)
		if priority > best {
			best = priority
		}
	}
	return best
}

func locationMatchPriority(location Location, country, state string) int {
	switch location.Type {
	case enums.LocationTypeState:
		if state != "" && location.Code == country+":"+state {
			return matchPriorityState
		}
	case enums.LocationTypeCountry:
		if location.Code == country {
			return matchPriorityCountry
		}
	case enums.LocationTypeContinent:
		if location.Code == "EU" {
			if _, ok := euCountries[country]; ok {
				return matchPriorityContinent
			}
		}
	}
	return matchPriorityNone
}
