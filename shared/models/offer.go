package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexString is a provider scalar that may arrive as a JSON string, number or
// bool. Null and malformed values decode to the empty string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*f = ""
			return nil
		}
		*f = FlexString(s)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		*f = ""
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Amount is a monetary value the provider renders either as "250.00" or 250.
type Amount = FlexString

// Float parses the amount. ok is false when the value is empty, unparseable
// or not finite.
func (f FlexString) Float() (float64, bool) {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// RawOffer is one unmodified search-provider flight offer
type RawOffer struct {
	Type                   string            `json:"type,omitempty"`
	ID                     FlexString        `json:"id,omitempty"`
	Source                 string            `json:"source,omitempty"`
	OneWay                 bool              `json:"oneWay"`
	LastTicketingDate      string            `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats  int               `json:"numberOfBookableSeats,omitempty"`
	Itineraries            []Itinerary       `json:"itineraries"`
	Price                  RawPrice          `json:"price"`
	FareRules              *FareRules        `json:"fareRules,omitempty"`
	ValidatingAirlineCodes []string          `json:"validatingAirlineCodes,omitempty"`
	TravelerPricings       []TravelerPricing `json:"travelerPricings,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON keeps the provider bytes so the offer can be sent back for
// pricing with every field the provider returned, known or not.
func (r *RawOffer) UnmarshalJSON(data []byte) error {
	type plain RawOffer
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RawOffer(p)
	if trimmed := bytes.TrimSpace(data); !bytes.Equal(trimmed, []byte("null")) {
		r.raw = append(json.RawMessage(nil), trimmed...)
	}
	return nil
}

// MarshalJSON re-emits the decoded provider bytes when there are any
func (r RawOffer) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type plain RawOffer
	return json.Marshal(plain(r))
}

// Itinerary is one directional journey
type Itinerary struct {
	Duration string    `json:"duration,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is a single flown leg
type Segment struct {
	ID            FlexString `json:"id,omitempty"`
	CarrierCode   string     `json:"carrierCode,omitempty"`
	Number        FlexString `json:"number,omitempty"`
	Departure     Endpoint   `json:"departure"`
	Arrival       Endpoint   `json:"arrival"`
	Aircraft      Aircraft   `json:"aircraft"`
	Duration      string     `json:"duration,omitempty"`
	NumberOfStops int        `json:"numberOfStops,omitempty"`
}

// Endpoint is the airport and timestamp of a segment departure or arrival
type Endpoint struct {
	IataCode string `json:"iataCode,omitempty"`
	Terminal string `json:"terminal,omitempty"`
	At       string `json:"at,omitempty"`
}

type Aircraft struct {
	Code string `json:"code,omitempty"`
}

// RawPrice is the provider price block
type RawPrice struct {
	Currency   string `json:"currency,omitempty"`
	Base       Amount `json:"base,omitempty"`
	Total      Amount `json:"total,omitempty"`
	GrandTotal Amount `json:"grandTotal,omitempty"`
}

type FareRules struct {
	Rules []FareRule `json:"rules,omitempty"`
}

type FareRule struct {
	Category         string `json:"category,omitempty"`
	MaxPenaltyAmount Amount `json:"maxPenaltyAmount,omitempty"`
	NotApplicable    bool   `json:"notApplicable,omitempty"`
}

type TravelerPricing struct {
	TravelerID           FlexString    `json:"travelerId,omitempty"`
	TravelerType         string        `json:"travelerType,omitempty"`
	FareDetailsBySegment []FareDetails `json:"fareDetailsBySegment,omitempty"`
}

type FareDetails struct {
	SegmentID   FlexString `json:"segmentId,omitempty"`
	Cabin       string     `json:"cabin,omitempty"`
	BrandedFare string     `json:"brandedFare,omitempty"`
	Amenities   []Amenity  `json:"amenities,omitempty"`
}

type Amenity struct {
	Description  string `json:"description,omitempty"`
	IsChargeable bool   `json:"isChargeable,omitempty"`
	AmenityType  string `json:"amenityType,omitempty"`
}

// Dictionaries holds provider lookup tables and summary aggregates
type Dictionaries struct {
	Carriers       map[string]string   `json:"carriers,omitempty"`
	Aircraft       map[string]string   `json:"aircraft,omitempty"`
	Currencies     map[string]string   `json:"currencies,omitempty"`
	Locations      map[string]Location `json:"locations,omitempty"`
	PriceRange     *PriceRange         `json:"priceRange,omitempty"`
	TransitOptions map[string]int      `json:"transitOptions,omitempty"`
	DepartureTime  *TimeRange          `json:"departureTime,omitempty"`
	ArrivalTime    *TimeRange          `json:"arrivalTime,omitempty"`
	AirlineCounts  map[string]int      `json:"airlineCounts,omitempty"`
}

type Location struct {
	CityCode    string `json:"cityCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

type PriceRange struct {
	Min Amount `json:"min,omitempty"`
	Max Amount `json:"max,omitempty"`
}

type TimeRange struct {
	Earliest string `json:"earliest,omitempty"`
	Latest   string `json:"latest,omitempty"`
}

// SearchPayload is the provider response consumed by the pipeline
type SearchPayload struct {
	Data         []RawOffer    `json:"data"`
	Dictionaries *Dictionaries `json:"dictionaries,omitempty"`
}

// FlightOffer is the normalized, UI-ready offer
type FlightOffer struct {
	ID           string     `json:"id"`
	Airline      Airline    `json:"airline"`
	FlightNumber string     `json:"flightNumber"`
	Aircraft     string     `json:"aircraft,omitempty"`
	Departure    OfferPoint `json:"departure"`
	Arrival      OfferPoint `json:"arrival"`
	Duration     string     `json:"duration"`
	Stops        Stops      `json:"stops"`
	Price        float64    `json:"price"`
	Currency     string     `json:"currency"`
	Tags         []string   `json:"tags"`
}

type Airline struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Logo string `json:"logo,omitempty"`
}

type OfferPoint struct {
	City string `json:"city"`
	Code string `json:"code"`
	Time string `json:"time"` // "10:15", UTC clock face
	Date string `json:"date,omitempty"`
}

type Stops struct {
	Count     int      `json:"count"`
	Locations []string `json:"locations"`
}

const (
	TagOneWay     = "One Way"
	TagRefundable = "Refundable"
)
