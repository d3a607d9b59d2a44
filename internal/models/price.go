package models

import "time"

// PriceObservation is a submitted price together with the current average for
// the same item at the same store. It is supplied per call and never stored here.
type PriceObservation struct {
	SubmittedAt   time.Time `json:"submitted_at"`
	VerifiedCount int       `json:"verified_count"`
	Price         float64   `json:"price"`
	AveragePrice  float64   `json:"average_price"`
}
