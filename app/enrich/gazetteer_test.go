package enrich

import (
	"testing"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestResolveCoordinates_ExactMatch(t *testing.T) {
	lat, lon := ResolveCoordinates("Tehran", nil, nil)

	if lat == nil || lon == nil {
		t.Fatal("Expected fallback coordinates for Tehran")
	}
	if *lat != 35.69 || *lon != 51.42 {
		t.Errorf("Expected (35.69, 51.42), got (%v, %v)", *lat, *lon)
	}
}

func TestResolveCoordinates_CaseAndWhitespace(t *testing.T) {
	lat, lon := ResolveCoordinates("  PARIS  ", nil, nil)

	if lat == nil || lon == nil {
		t.Fatal("Expected fallback coordinates for Paris")
	}
	if *lat != 48.86 || *lon != 2.35 {
		t.Errorf("Expected (48.86, 2.35), got (%v, %v)", *lat, *lon)
	}
}

func TestResolveCoordinates_HebrewKey(t *testing.T) {
	lat, lon := ResolveCoordinates("ירושלים", nil, nil)

	if lat == nil || lon == nil {
		t.Fatal("Expected fallback coordinates for Hebrew place name")
	}
	if *lat != 31.77 || *lon != 35.21 {
		t.Errorf("Expected (31.77, 35.21), got (%v, %v)", *lat, *lon)
	}
}

func TestResolveCoordinates_EmptyName(t *testing.T) {
	lat, lon := ResolveCoordinates("", nil, nil)

	if lat != nil || lon != nil {
		t.Error("Expected nil coordinates for empty location name")
	}
}

func TestResolveCoordinates_ExistingCoordinatesKept(t *testing.T) {
	lat, lon := ResolveCoordinates("Tel Aviv", floatPtr(1.0), floatPtr(2.0))

	if lat == nil || lon == nil {
		t.Fatal("Expected coordinates to be returned")
	}
	if *lat != 1.0 || *lon != 2.0 {
		t.Errorf("Existing coordinates must never be overwritten, got (%v, %v)", *lat, *lon)
	}
}

func TestResolveCoordinates_SubstringMatch(t *testing.T) {
	// "northern gaza strip" is not a gazetteer key but contains "gaza".
	lat, lon := ResolveCoordinates("Northern Gaza Strip", nil, nil)

	if lat == nil || lon == nil {
		t.Fatal("Expected substring match to resolve coordinates")
	}
	if *lat != 31.50 || *lon != 34.47 {
		t.Errorf("Expected Gaza coordinates (31.50, 34.47), got (%v, %v)", *lat, *lon)
	}
}

func TestResolveCoordinates_UnknownName(t *testing.T) {
	lat, lon := ResolveCoordinates("Wycombe Abbey Boarding House", nil, nil)

	if lat != nil || lon != nil {
		t.Error("Resolver must not fabricate coordinates for unknown places")
	}
}

func TestResolveCoordinates_PartialCoordinates(t *testing.T) {
	// A name with only one coordinate present still resolves from the table.
	lat, lon := ResolveCoordinates("London", floatPtr(51.51), nil)

	if lat == nil || lon == nil {
		t.Fatal("Expected resolution when one coordinate is missing")
	}
	if *lat != 51.51 || *lon != -0.13 {
		t.Errorf("Expected (51.51, -0.13), got (%v, %v)", *lat, *lon)
	}
}
