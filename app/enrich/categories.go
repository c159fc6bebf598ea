package enrich

import (
	"slices"
	"strings"
)

const (
	CategoryMilitary       = "military"
	CategoryPolitical      = "political"
	CategoryCasualties     = "casualties"
	CategoryInfrastructure = "infrastructure"
	CategoryGeneral        = "general"
)

// Categories is the closed set of event categories.
var Categories = []string{
	CategoryMilitary,
	CategoryPolitical,
	CategoryCasualties,
	CategoryInfrastructure,
	CategoryGeneral,
}

// NormalizeCategory maps a free-text category from the model onto the
// closed set. Anything unrecognized becomes "general".
func NormalizeCategory(raw string) string {
	category := strings.ToLower(strings.TrimSpace(raw))
	if slices.Contains(Categories, category) {
		return category
	}
	return CategoryGeneral
}
