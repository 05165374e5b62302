package config

// ListingPackage is a sale-listing fee tier. The package price becomes the
// listing fee that must be paid before the listing can be published.
type ListingPackage struct {
	ID           string
	Name         string
	PriceUSD     float64
	DurationDays int
}

var ListingPackages = []ListingPackage{
	{ID: "basic", Name: "Basic Listing", PriceUSD: 25, DurationDays: 30},
	{ID: "premium", Name: "Premium Exposure", PriceUSD: 75, DurationDays: 60},
	{ID: "platinum", Name: "Platinum Marketing", PriceUSD: 150, DurationDays: 90},
}

// PackageByID resolves a fee tier by its form value.
func PackageByID(id string) (ListingPackage, bool) {
	for _, p := range ListingPackages {
		if p.ID == id {
			return p, true
		}
	}
	return ListingPackage{}, false
}

// DefaultPackage is the tier applied when a submission does not name one.
// The fee is not user-editable at submission time.
func DefaultPackage() ListingPackage {
	return ListingPackages[0]
}
