package pricing

import (
	"testing"

	"github.com/olivara/storefront-backend/pkg/enums"
)

func countryZone(id int64, name, code string) Zone {
	return Zone{ID: id, Name: name, Locations: []Location{{Type: enums.LocationTypeCountry, Code: code}}}
}

func TestResolveZoneCountryBeatsContinent(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		{ID: 1, Name: "Europe", Locations: []Location{{Type: enums.LocationTypeContinent, Code: "EU"}}},
		countryZone(2, "Austria", "AT"),
	}

	got := ResolveZone(zones, "AT", "")
	if got == nil || got.ID != 2 {
		t.Fatalf("expected country-level zone 2, got %+v", got)
	}
}

func TestResolveZoneStateBeatsCountry(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		countryZone(1, "Germany", "DE"),
		{ID: 2, Name: "Bavaria", Locations: []Location{{Type: enums.LocationTypeState, Code: "DE:BY"}}},
	}

	got := ResolveZone(zones, "DE", "BY")
	if got == nil || got.ID != 2 {
		t.Fatalf("expected state-level zone 2, got %+v", got)
	}

	got = ResolveZone(zones, "DE", "HE")
	if got == nil || got.ID != 1 {
		t.Fatalf("expected country zone for other states, got %+v", got)
	}
}

func TestResolveZoneTiesBreakOnDeclarationOrder(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		countryZone(7, "Austria A", "AT"),
		countryZone(8, "Austria B", "AT"),
	}

	got := ResolveZone(zones, "AT", "")
	if got == nil || got.ID != 7 {
		t.Fatalf("expected first declared zone to win the tie, got %+v", got)
	}
}

func TestResolveZoneFallbackOnlyForZoneZero(t *testing.T) {
	t.Parallel()

	zones := []Zone{
		countryZone(1, "Austria", "AT"),
		{ID: 5, Name: "Orphan"},
		{ID: 0, Name: "Rest of world"},
	}

	got := ResolveZone(zones, "US", "")
	if got == nil || got.ID != 0 {
		t.Fatalf("expected rest-of-world fallback, got %+v", got)
	}
}

func TestResolveZoneNoMatchReturnsNil(t *testing.T) {
	t.Parallel()

	zones := []Zone{countryZone(1, "Austria", "AT")}
	if got := ResolveZone(zones, "US", ""); got != nil {
		t.Fatalf("expected no match, got %+v", got)
	}
}

func TestResolveZoneContinentMembership(t *testing.T) {
	t.Parallel()

	zones := []Zone{{ID: 3, Name: "EU", Locations: []Location{{Type: enums.LocationTypeContinent, Code: "EU"}}}}

	if got := ResolveZone(zones, "PT", ""); got == nil || got.ID != 3 {
		t.Fatalf("PT is an EU member, got %+v", got)
	}
	if got := ResolveZone(zones, "CH", ""); got != nil {
		t.Fatalf("CH is not an EU member, got %+v", got)
	}
	if got := ResolveZone(zones, "GB", ""); got != nil {
		t.Fatalf("GB is not an EU member, got %+v", got)
	}
}
