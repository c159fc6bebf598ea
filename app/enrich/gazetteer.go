package enrich

import (
	"log/slog"
	"strings"
)

type place struct {
	name string
	lat  float64
	lon  float64
}

// gazetteer maps well-known place names (native script and transliterated)
// to approximate coordinates. It is a safety net for enrichment results
// that name a location but omit coordinates. Declaration order is the
// substring-match scan order, which keeps matches deterministic.
var gazetteer = []place{
	// Middle East
	{"איראן", 35.69, 51.42}, {"אירן", 35.69, 51.42}, {"iran", 35.69, 51.42},
	{"טהראן", 35.69, 51.42}, {"tehran", 35.69, 51.42},
	{"ישראל", 31.77, 35.21}, {"israel", 31.77, 35.21},
	{"תל אביב", 32.08, 34.78}, {"tel aviv", 32.08, 34.78},
	{"ירושלים", 31.77, 35.21}, {"jerusalem", 31.77, 35.21},
	{"חיפה", 32.79, 34.99}, {"haifa", 32.79, 34.99},
	{"אילת", 29.55, 34.95}, {"eilat", 29.55, 34.95},
	{"אשקלון", 31.67, 34.57}, {"ashkelon", 31.67, 34.57},
	{"עזה", 31.50, 34.47}, {"gaza", 31.50, 34.47},
	{"רצועת עזה", 31.50, 34.47}, {"gaza strip", 31.50, 34.47},
	{"לבנון", 33.89, 35.50}, {"lebanon", 33.89, 35.50},
	{"ביירות", 33.89, 35.50}, {"beirut", 33.89, 35.50},
	{"סוריה", 33.51, 36.29}, {"syria", 33.51, 36.29},
	{"דמשק", 33.51, 36.29}, {"damascus", 33.51, 36.29},
	{"עיראק", 33.31, 44.36}, {"iraq", 33.31, 44.36},
	{"בגדד", 33.31, 44.36}, {"baghdad", 33.31, 44.36},
	{"מצרים", 30.04, 31.24}, {"egypt", 30.04, 31.24},
	{"קהיר", 30.04, 31.24}, {"cairo", 30.04, 31.24},
	{"ירדן", 31.95, 35.93}, {"jordan", 31.95, 35.93},
	{"עמאן", 31.95, 35.93}, {"amman", 31.95, 35.93},
	{"סעודיה", 24.71, 46.67}, {"saudi arabia", 24.71, 46.67},
	{"ריאד", 24.71, 46.67}, {"riyadh", 24.71, 46.67},
	{"תימן", 15.55, 48.52}, {"yemen", 15.55, 48.52},

	// Europe
	{"בריטניה", 51.51, -0.13}, {"uk", 51.51, -0.13}, {"united kingdom", 51.51, -0.13},
	{"לונדון", 51.51, -0.13}, {"london", 51.51, -0.13},
	{"צרפת", 48.86, 2.35}, {"france", 48.86, 2.35},
	{"פריז", 48.86, 2.35}, {"paris", 48.86, 2.35},
	{"גרמניה", 52.52, 13.41}, {"germany", 52.52, 13.41},
	{"ברלין", 52.52, 13.41}, {"berlin", 52.52, 13.41},
	{"איטליה", 41.90, 12.50}, {"italy", 41.90, 12.50},
	{"רומא", 41.90, 12.50}, {"rome", 41.90, 12.50},
	{"ספרד", 40.42, -3.70}, {"spain", 40.42, -3.70},
	{"מדריד", 40.42, -3.70}, {"madrid", 40.42, -3.70},
	{"רוסיה", 55.75, 37.62}, {"russia", 55.75, 37.62},
	{"מוסקבה", 55.75, 37.62}, {"moscow", 55.75, 37.62},
	{"הולנד", 52.37, 4.90}, {"netherlands", 52.37, 4.90},
	{"אמסטרדם", 52.37, 4.90}, {"amsterdam", 52.37, 4.90},
	{"שוויץ", 46.95, 7.45}, {"switzerland", 46.95, 7.45},

	// Americas
	{"ארהב", 38.91, -77.04}, {"usa", 38.91, -77.04}, {"united states", 38.91, -77.04},
	{"ניו יורק", 40.71, -74.01}, {"new york", 40.71, -74.01},
	{"וושינגטון", 38.91, -77.04}, {"washington", 38.91, -77.04},
	{"לוס אנג'לס", 34.05, -118.24}, {"los angeles", 34.05, -118.24},
	{"מקסיקו", 19.43, -99.13}, {"mexico", 19.43, -99.13},
	{"ברזיל", -15.79, -47.89}, {"brazil", -15.79, -47.89},
	{"ארגנטינה", -34.60, -58.38}, {"argentina", -34.60, -58.38},

	// Asia
	{"סין", 39.90, 116.40}, {"china", 39.90, 116.40},
	{"בייג'ינג", 39.90, 116.40}, {"beijing", 39.90, 116.40},
	{"יפן", 35.68, 139.65}, {"japan", 35.68, 139.65},
	{"טוקיו", 35.68, 139.65}, {"tokyo", 35.68, 139.65},
	{"הודו", 28.61, 77.21}, {"india", 28.61, 77.21},
	{"דלהי", 28.61, 77.21}, {"delhi", 28.61, 77.21},
	{"קוריאה", 37.57, 126.98}, {"korea", 37.57, 126.98}, {"south korea", 37.57, 126.98},
	{"סיאול", 37.57, 126.98}, {"seoul", 37.57, 126.98},
	{"תאילנד", 13.76, 100.50}, {"thailand", 13.76, 100.50},
	{"בנגקוק", 13.76, 100.50}, {"bangkok", 13.76, 100.50},
	{"סינגפור", 1.35, 103.82}, {"singapore", 1.35, 103.82},
	{"פקיסטן", 33.72, 73.06}, {"pakistan", 33.72, 73.06},
	{"אפגניסטן", 34.53, 69.17}, {"afghanistan", 34.53, 69.17},

	// Africa
	{"דרום אפריקה", -26.20, 28.05}, {"south africa", -26.20, 28.05},
	{"ניגריה", 6.52, 3.38}, {"nigeria", 6.52, 3.38},
	{"קניה", -1.29, 36.82}, {"kenya", -1.29, 36.82},
	{"אתיופיה", 9.02, 38.75}, {"ethiopia", 9.02, 38.75},

	// Oceania
	{"אוסטרליה", -33.87, 151.21}, {"australia", -33.87, 151.21},
	{"סידני", -33.87, 151.21}, {"sydney", -33.87, 151.21},
	{"ניו זילנד", -36.85, 174.76}, {"new zealand", -36.85, 174.76},
}

var gazetteerIndex = make(map[string]place, len(gazetteer))

func init() {
	for _, p := range gazetteer {
		gazetteerIndex[p.name] = p
	}
}

// ResolveCoordinates fills in coordinates for a named location when the
// enrichment result omitted them. Existing coordinates are never
// overwritten, and an unknown name leaves the inputs unchanged.
//
// TODO: substring matching can false-positive on very short names; consider
// a minimum-length guard for the containment checks.
func ResolveCoordinates(locationName string, lat, lon *float64) (*float64, *float64) {
	if locationName == "" || (lat != nil && lon != nil) {
		return lat, lon
	}

	normalized := strings.ToLower(strings.TrimSpace(locationName))
	if normalized == "" {
		return lat, lon
	}

	if p, ok := gazetteerIndex[normalized]; ok {
		slog.Info("Applied fallback coordinates", "location", locationName, "lat", p.lat, "lon", p.lon)
		return &p.lat, &p.lon
	}

	for _, p := range gazetteer {
		if strings.Contains(normalized, p.name) || strings.Contains(p.name, normalized) {
			slog.Info("Applied fallback coordinates", "location", locationName, "matched", p.name, "lat", p.lat, "lon", p.lon)
			return &p.lat, &p.lon
		}
	}

	slog.Warn("No fallback coordinates found", "location", locationName)
	return lat, lon
}
