package models

import "time"

// PaymentRecord is the immutable record of a collected listing fee. One row
// is written per successful charge; retried submissions that reuse a client
// token resolve to the original row instead of creating a duplicate.
type PaymentRecord struct {
	ID         string `gorm:"primaryKey" json:"id"`
	PropertyID string `gorm:"index;uniqueIndex:idx_payment_replay" json:"property_id"`

	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`

	ListingType string `json:"listing_type"`

	CustomerEmail string `json:"customer_email"`
	CustomerName  string `json:"customer_name"`
	CustomerType  string `json:"customer_type"`

	// Correlation ids assigned by the external processor.
	ProcessorPaymentID string `gorm:"uniqueIndex" json:"processor_payment_id"`
	ProcessorSessionID string `json:"processor_session_id"`

	// ClientToken is the caller-supplied idempotency key, unique per listing.
	ClientToken string `gorm:"uniqueIndex:idx_payment_replay" json:"-"`

	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}
