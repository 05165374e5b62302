// Package listings holds the listing submission workflow: the multi-step
// draft builder with per-step validation and derived local-currency pricing,
// and the in-memory filter used by the dashboards and the public listings
// feed.
package listings

import (
	"math"
	"strconv"
	"strings"

	"caribbeanhomehub/server/config"
)

// Draft accumulates a listing submission across the wizard steps. Field
// values stay raw strings until submission so partially typed input is never
// lost on a failed step.
type Draft struct {
	// Step 1: basic info
	Title        string
	Description  string
	PropertyType string
	Country      string

	// Step 2: property details
	Island     string
	Region     string
	Address    string
	Bedrooms   string
	Bathrooms  string
	SquareFeet string

	// Step 3: pricing
	Price              string
	PriceLocalCurrency string
	LocalCurrency      string
	ListingType        string

	// Step 4: contact & package
	AgentName       string
	AgentEmail      string
	AgentPhone      string
	Brokerage       string
	SelectedPackage string

	Featured            bool
	CitizenshipEligible bool
	Features            []string
	Images              []string
}

// Steps of the submission wizard, in order.
const (
	StepBasicInfo = 1
	StepDetails   = 2
	StepPricing   = 3
	StepContact   = 4

	StepCount = 4
)

// Builder drives the wizard: one mutable draft, a per-field error map and
// the current step index. Advancing past a step is blocked until that step
// validates.
type Builder struct {
	Draft  Draft
	Errors map[string]string

	step int
}

func NewBuilder() *Builder {
	return &Builder{
		Errors: map[string]string{},
		step:   StepBasicInfo,
	}
}

func (b *Builder) Step() int {
	return b.step
}

// Update applies a change to the draft and re-derives the local-currency
// price. The derivation runs on every change, not once: editing the price or
// switching country recomputes the local amount from scratch.
func (b *Builder) Update(mutate func(*Draft)) {
	mutate(&b.Draft)
	b.Draft.Recalculate()
}

// Next validates the current step and advances when it passes. The error
// map is replaced with the current step's failures either way.
func (b *Builder) Next() bool {
	if !b.ValidateStep(b.step) {
		return false
	}
	if b.step < StepCount {
		b.step++
	}
	return true
}

func (b *Builder) Prev() {
	if b.step > StepBasicInfo {
		b.step--
	}
}

// Complete reports whether every step of the draft validates, i.e. the
// merged draft is ready for submission.
func (b *Builder) Complete() bool {
	for step := StepBasicInfo; step <= StepCount; step++ {
		if !b.validate(step, map[string]string{}) {
			return false
		}
	}
	return true
}

// ValidateStep checks only the fields belonging to step n against the
// required-field table and replaces the error map with the result.
func (b *Builder) ValidateStep(n int) bool {
	errs := map[string]string{}
	ok := b.validate(n, errs)
	b.Errors = errs
	return ok
}

func (b *Builder) validate(n int, errs map[string]string) bool {
	d := &b.Draft

	switch n {
	case StepBasicInfo:
		if strings.TrimSpace(d.Title) == "" {
			errs["title"] = "Property title is required"
		}
		if d.PropertyType == "" {
			errs["propertyType"] = "Property type is required"
		}
		if strings.TrimSpace(d.Description) == "" {
			errs["description"] = "Description is required"
		}
		if d.Country == "" {
			errs["country"] = "Country is required"
		}

	case StepDetails:
		// Land parcels have no rooms to count.
		land := d.PropertyType == "land"
		if !land && !isNonNegativeNumber(d.Bedrooms) {
			errs["bedrooms"] = "Bedrooms required"
		}
		if !land && !isNonNegativeNumber(d.Bathrooms) {
			errs["bathrooms"] = "Bathrooms required"
		}
		if !isNonNegativeNumber(d.SquareFeet) {
			errs["squareFeet"] = "Square footage is required"
		}

	case StepPricing:
		if d.Price == "" {
			errs["price"] = "Price is required"
		} else if price, err := strconv.ParseFloat(d.Price, 64); err != nil || price <= 0 {
			errs["price"] = "Price must be greater than 0"
		}

	case StepContact:
		if strings.TrimSpace(d.AgentName) == "" {
			errs["agentName"] = "Agent name is required"
		}
		if strings.TrimSpace(d.AgentEmail) == "" {
			errs["agentEmail"] = "Agent email is required"
		}
		if strings.TrimSpace(d.AgentPhone) == "" {
			errs["agentPhone"] = "Agent phone is required"
		}
		if _, ok := config.PackageByID(d.SelectedPackage); !ok {
			errs["selectedPackage"] = "Please select a package"
		}
	}

	return len(errs) == 0
}

// Recalculate derives the local-currency price from the USD price and the
// selected country. Re-running with the same inputs yields the same output.
func (d *Draft) Recalculate() {
	country, ok := config.CountryByCode(d.Country)
	if !ok {
		return
	}

	d.LocalCurrency = country.Currency

	price, err := strconv.ParseFloat(d.Price, 64)
	if err != nil || price <= 0 {
		return
	}
	if country.ExchangeRate != 1.0 {
		local := math.Round(price * country.ExchangeRate)
		d.PriceLocalCurrency = strconv.FormatFloat(local, 'f', -1, 64)
	}
}

func isNonNegativeNumber(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 0
}
