package models

import "time"

// Approval statuses form the administrative publication gate.
const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

// Payment statuses track whether the listing fee has been collected.
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
)

const (
	ListingTypeSale   = "SALE"
	ListingTypeRental = "RENTAL"
)

type Property struct {
	ID           string `gorm:"primaryKey" json:"id"`
	UserID       string `gorm:"index" json:"user_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PropertyType string `json:"property_type"`

	Country string `json:"country"`
	Island  string `json:"island"`
	Region  string `json:"region"`
	Address string `json:"address"`

	Bedrooms   int `json:"bedrooms"`
	Bathrooms  int `json:"bathrooms"`
	SquareFeet int `json:"square_feet"`

	Price              float64 `json:"price"`
	PriceLocalCurrency float64 `json:"price_local_currency,omitempty"`
	LocalCurrency      string  `json:"local_currency,omitempty"`

	AgentName  string `json:"agent_name,omitempty"`
	AgentEmail string `json:"agent_email,omitempty"`
	AgentPhone string `json:"agent_phone,omitempty"`
	Brokerage  string `json:"brokerage,omitempty"`

	ListingType    string  `json:"listing_type"`
	ListingFee     float64 `json:"listing_fee"`
	PaymentStatus  string  `gorm:"index" json:"payment_status"`
	ApprovalStatus string  `gorm:"index" json:"approval_status"`

	Featured            bool `json:"featured"`
	CitizenshipEligible bool `json:"citizenship_eligible"`

	Features []string `gorm:"serializer:json" json:"features"`
	Images   []string `gorm:"serializer:json" json:"images"`

	CreatedAt time.Time `json:"created_at"`
}

// Visible reports whether the listing may appear in public search results.
// Both gates are independent: a paid listing still needs approval and an
// approved listing still needs its fee collected.
func (p *Property) Visible() bool {
	return p.ApprovalStatus == ApprovalApproved && p.PaymentStatus == PaymentCompleted
}

// Location is the searchable location string shown on dashboards.
func (p *Property) Location() string {
	if p.Address != "" {
		return p.Address
	}
	return p.Country
}
