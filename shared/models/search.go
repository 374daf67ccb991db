package models

import "time"

// SearchQuery is a flight search request as received from the results view
type SearchQuery struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	Infants       int    `json:"infants"`
	TravelClass   string `json:"travelClass"`
	TripType      string `json:"tripType"`
	NonStop       bool   `json:"nonStop"`
	Token         string `json:"token,omitempty"`
}

const (
	TripTypeOneWay    = "One Way"
	TripTypeRoundTrip = "Round Trip"
)

// SearchResult is the visible window of a search plus its paging metadata
type SearchResult struct {
	Token        string        `json:"token"`
	Offers       []FlightOffer `json:"offers"`
	Total        int           `json:"total"`
	Visible      int           `json:"visible"`
	NextCount    int           `json:"nextCount,omitempty"`
	HasMore      bool          `json:"hasMore"`
	Cached       bool          `json:"cached"`
	Dictionaries *Dictionaries `json:"dictionaries,omitempty"`
}

// OfferDetail pairs a normalized offer with the raw provider offer it came from
type OfferDetail struct {
	Token string      `json:"token"`
	Offer FlightOffer `json:"offer"`
	Raw   RawOffer    `json:"raw"`
}

// SearchEvent is published after every completed search
type SearchEvent struct {
	Token       string    `json:"token"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Departure   string    `json:"departureDate"`
	OfferCount  int       `json:"offerCount"`
	Cached      bool      `json:"cached"`
	Failed      bool      `json:"failed"`
	Timestamp   time.Time `json:"timestamp"`
}
