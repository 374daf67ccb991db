package provider

import (
	"regexp"
	"strings"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

type originDestination struct {
	ID                      string            `json:"id"`
	OriginLocationCode      string            `json:"originLocationCode"`
	DestinationLocationCode string            `json:"destinationLocationCode"`
	DepartureDateTimeRange  map[string]string `json:"departureDateTimeRange"`
}

type searchRequest struct {
	OriginDestinations []originDestination `json:"originDestinations"`
	Adults             int                 `json:"adults"`
	Children           int                 `json:"children"`
	Infants            int                 `json:"infants"`
	TravelClass        string              `json:"travelClass"`
	CurrencyCode       string              `json:"currencyCode"`
	TripType           string              `json:"tripType"`
	ManualSort         string              `json:"manualSort"`
	GroupByPrice       bool                `json:"groupByPrice"`
	Origin             string              `json:"origin"`
	Destination        string              `json:"destination"`
	DepartureDate      string              `json:"departureDate"`
	ReturnDate         string              `json:"returnDate,omitempty"`
	NonStop            bool                `json:"nonStop"`
}

type pricingRequestData struct {
	Type                  string            `json:"type"`
	FlightOffers          []models.RawOffer `json:"flightOffers"`
	AdditionalInformation map[string]bool   `json:"additionalInformation"`
}

type pricingRequest struct {
	Data pricingRequestData `json:"data"`
}

type pricingResponse struct {
	Data struct {
		Type         string            `json:"type"`
		FlightOffers []models.RawOffer `json:"flightOffers"`
	} `json:"data"`
}

func (c *Client) searchRequest(q models.SearchQuery) searchRequest {
	origin := ParseIATA(q.Origin)
	destination := ParseIATA(q.Destination)
	departure := DateOnly(q.DepartureDate)
	ret := DateOnly(q.ReturnDate)

	ods := []originDestination{{
		ID:                      "1",
		OriginLocationCode:      origin,
		DestinationLocationCode: destination,
		DepartureDateTimeRange:  map[string]string{"date": departure},
	}}
	if q.TripType != models.TripTypeOneWay && ret != "" {
		ods = append(ods, originDestination{
			ID:                      "2",
			OriginLocationCode:      destination,
			DestinationLocationCode: origin,
			DepartureDateTimeRange:  map[string]string{"date": ret},
		})
	}

	tripType := "ROUND_TRIP"
	if q.TripType == models.TripTypeOneWay {
		tripType = "ONE_WAY"
	}

	return searchRequest{
		OriginDestinations: ods,
		Adults:             q.Adults,
		Children:           q.Children,
		Infants:            q.Infants,
		TravelClass:        TravelClass(q.TravelClass),
		CurrencyCode:       c.currency,
		TripType:           tripType,
		ManualSort:         "PRICE_LOW_TO_HIGH",
		GroupByPrice:       true,
		Origin:             origin,
		Destination:        destination,
		DepartureDate:      departure,
		ReturnDate:         ret,
		NonStop:            q.NonStop,
	}
}

var (
	trailingCode = regexp.MustCompile(`\(([^)]+)\)\s*$`)
	iataCode     = regexp.MustCompile(`^[A-Z]{3}$`)
)

// ParseIATA extracts an airport code from inputs like "Sydney (SYD)", "SYD"
// or "Sydney SYD". Anything else is returned trimmed.
func ParseIATA(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if m := trailingCode.FindStringSubmatch(input); m != nil {
		return strings.TrimSpace(m[1])
	}
	if iataCode.MatchString(input) {
		return input
	}
	tokens := strings.Fields(input)
	if last := tokens[len(tokens)-1]; iataCode.MatchString(last) {
		return last
	}
	return input
}

// TravelClass renders a cabin name the way the provider expects it
func TravelClass(class string) string {
	class = strings.TrimSpace(class)
	if class == "" {
		class = "Economy"
	}
	return strings.ReplaceAll(strings.ToUpper(class), " ", "_")
}

// DateOnly drops the time part of "2024-01-01T10:00"
func DateOnly(s string) string {
	date, _, _ := strings.Cut(strings.TrimSpace(s), "T")
	return date
}
