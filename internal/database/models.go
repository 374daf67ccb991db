package database

import (
	"time"

	"github.com/google/uuid"
)

// SearchRecord is one row of the searches audit table
type SearchRecord struct {
	ID            uuid.UUID `json:"id"`
	Token         string    `json:"token"`
	SearchKey     string    `json:"searchKey"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureDate string    `json:"departureDate"`
	ReturnDate    string    `json:"returnDate,omitempty"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	Infants       int       `json:"infants"`
	TravelClass   string    `json:"travelClass"`
	TripType      string    `json:"tripType"`
	OfferCount    int       `json:"offerCount"`
	Cached        bool      `json:"cached"`
	Failed        bool      `json:"failed"`
	CreatedAt     time.Time `json:"createdAt"`
}

// PricingRecord is the stored outcome of an offer pricing run
type PricingRecord struct {
	WorkflowID        string    `json:"workflowId"`
	Token             string    `json:"token"`
	OfferID           string    `json:"offerId"`
	Status            string    `json:"status"`
	QuotedPrice       float64   `json:"quotedPrice"`
	PricedTotal       float64   `json:"pricedTotal"`
	Currency          string    `json:"currency"`
	LastTicketingDate string    `json:"lastTicketingDate,omitempty"`
	PriceChanged      bool      `json:"priceChanged"`
	FailureReason     string    `json:"failureReason,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
