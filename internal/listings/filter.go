package listings

import (
	"strconv"
	"strings"

	"caribbeanhomehub/server/internal/models"
)

// Filter narrows a listing set with AND semantics. The zero value matches
// everything. Filtering is a pure function over the in-memory result set;
// at the scale this marketplace targets there is no need to push it into
// the query.
type Filter struct {
	// Search matches title or location, case-insensitive substring.
	Search string
	// PriceRange is "min-max"; an omitted max ("500000-") is open-ended.
	PriceRange string
	// PropertyType is an exact match when set.
	PropertyType string
	// MinBedrooms is the minimum bedroom count.
	MinBedrooms int
	// Country is an exact match when set.
	Country string
	// CitizenshipOnly keeps only investment/citizenship-eligible listings.
	CitizenshipOnly bool
}

// Apply returns the listings matching every set criterion, preserving order.
func (f Filter) Apply(properties []models.Property) []models.Property {
	minPrice, maxPrice, hasMax := parsePriceRange(f.PriceRange)
	search := strings.ToLower(strings.TrimSpace(f.Search))

	var out []models.Property
	for _, p := range properties {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Location()), search) {
			continue
		}
		if f.PriceRange != "" {
			if p.Price < minPrice {
				continue
			}
			if hasMax && p.Price > maxPrice {
				continue
			}
		}
		if f.PropertyType != "" && p.PropertyType != f.PropertyType {
			continue
		}
		if f.MinBedrooms > 0 && p.Bedrooms < f.MinBedrooms {
			continue
		}
		if f.Country != "" && p.Country != f.Country {
			continue
		}
		if f.CitizenshipOnly && !p.CitizenshipEligible {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parsePriceRange splits "min-max" into bounds. A missing or unparsable max
// leaves the range open-ended upward.
func parsePriceRange(s string) (minPrice, maxPrice float64, hasMax bool) {
	if s == "" {
		return 0, 0, false
	}
	parts := strings.SplitN(s, "-", 2)
	minPrice, _ = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if len(parts) == 2 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil && v > 0 {
			return minPrice, v, true
		}
	}
	return minPrice, 0, false
}
