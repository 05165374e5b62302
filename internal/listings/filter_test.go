package listings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"caribbeanhomehub/server/internal/models"
)

func sampleProperties() []models.Property {
	return []models.Property{
		{ID: "1", Title: "Cozy Apartment", Address: "Bridgetown, Barbados", Country: "barbados", PropertyType: "apartment", Price: 800, Bedrooms: 1},
		{ID: "2", Title: "Family Home", Address: "Kingston, Jamaica", Country: "jamaica", PropertyType: "house", Price: 1500, Bedrooms: 3},
		{ID: "3", Title: "Luxury Villa", Address: "Montego Bay, Jamaica", Country: "jamaica", PropertyType: "villa", Price: 2500, Bedrooms: 5, CitizenshipEligible: true},
	}
}

func TestFilterApply(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{
			name:    "zero filter matches everything",
			filter:  Filter{},
			wantIDs: []string{"1", "2", "3"},
		},
		{
			name:    "price range keeps only the middle listing",
			filter:  Filter{PriceRange: "1000-2000"},
			wantIDs: []string{"2"},
		},
		{
			name:    "open ended price range",
			filter:  Filter{PriceRange: "1000-"},
			wantIDs: []string{"2", "3"},
		},
		{
			name:    "search matches title case-insensitively",
			filter:  Filter{Search: "VILLA"},
			wantIDs: []string{"3"},
		},
		{
			name:    "search matches location",
			filter:  Filter{Search: "kingston"},
			wantIDs: []string{"2"},
		},
		{
			name:    "exact property type",
			filter:  Filter{PropertyType: "house"},
			wantIDs: []string{"2"},
		},
		{
			name:    "minimum bedrooms",
			filter:  Filter{MinBedrooms: 3},
			wantIDs: []string{"2", "3"},
		},
		{
			name:    "citizenship flag",
			filter:  Filter{CitizenshipOnly: true},
			wantIDs: []string{"3"},
		},
		{
			name:    "criteria combine with AND",
			filter:  Filter{Country: "jamaica", MinBedrooms: 4},
			wantIDs: []string{"3"},
		},
		{
			name:    "AND semantics can produce no matches",
			filter:  Filter{PropertyType: "apartment", PriceRange: "1000-2000"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(sampleProperties())

			var gotIDs []string
			for _, p := range got {
				gotIDs = append(gotIDs, p.ID)
			}
			assert.Equal(t, tt.wantIDs, gotIDs)
		})
	}
}

func TestParsePriceRange(t *testing.T) {
	minPrice, maxPrice, hasMax := parsePriceRange("1000-2000")
	assert.Equal(t, 1000.0, minPrice)
	assert.Equal(t, 2000.0, maxPrice)
	assert.True(t, hasMax)

	minPrice, _, hasMax = parsePriceRange("500000-")
	assert.Equal(t, 500000.0, minPrice)
	assert.False(t, hasMax)

	_, _, hasMax = parsePriceRange("")
	assert.False(t, hasMax)
}
