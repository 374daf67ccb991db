package search

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

// OfferIndex maps a normalized offer id back to the raw provider offer
type OfferIndex map[string]models.RawOffer

// Normalizer converts raw provider offers into FlightOffer records
type Normalizer struct {
	// LogoURL renders an airline logo URL for a carrier code. Nil leaves
	// Airline.Logo empty.
	LogoURL func(code string) string
}

// NewNormalizer creates a Normalizer. logoTemplate is a fmt-style template
// with a single %s for the carrier code; empty disables logos.
func NewNormalizer(logoTemplate string) *Normalizer {
	n := &Normalizer{}
	if logoTemplate != "" {
		n.LogoURL = func(code string) string {
			if code == "" {
				return ""
			}
			return strings.ReplaceAll(logoTemplate, "%s", code)
		}
	}
	return n
}

// Normalize runs the default Normalizer
func Normalize(raw []models.RawOffer, dict *models.Dictionaries) ([]models.FlightOffer, OfferIndex) {
	return (&Normalizer{}).Normalize(raw, dict)
}

// Normalize maps every raw offer onto a FlightOffer, reading only the first
// itinerary. It never mutates the input and never fails.
func (n *Normalizer) Normalize(raw []models.RawOffer, dict *models.Dictionaries) ([]models.FlightOffer, OfferIndex) {
	offers := make([]models.FlightOffer, 0, len(raw))
	index := make(OfferIndex, len(raw))
	generated := make(map[string]int)
	for _, r := range raw {
		offer := n.normalizeOffer(r, dict)
		if r.ID.String() == "" {
			// Identical id-less offers get their occurrence number appended.
			generated[offer.ID]++
			if seen := generated[offer.ID]; seen > 1 {
				offer.ID += "-" + strconv.Itoa(seen)
			}
		}
		offers = append(offers, offer)
		index[offer.ID] = r
	}
	return offers, index
}

func (n *Normalizer) normalizeOffer(r models.RawOffer, dict *models.Dictionaries) models.FlightOffer {
	var itinerary models.Itinerary
	if len(r.Itineraries) > 0 {
		itinerary = r.Itineraries[0]
	}
	segments := itinerary.Segments

	var first, last models.Segment
	if len(segments) > 0 {
		first = segments[0]
		last = segments[len(segments)-1]
	}

	price := offerPrice(r.Price)

	currency := r.Price.Currency
	// The display name is resolved but the code is what gets stored.
	_ = lookup(currencies(dict), currency)

	carrier := first.CarrierCode
	if carrier == "" && len(r.ValidatingAirlineCodes) > 0 {
		carrier = r.ValidatingAirlineCodes[0]
	}

	flightNumber := strings.TrimSpace(first.CarrierCode + "-" + first.Number.String())

	airline := models.Airline{
		Name: lookup(carriers(dict), carrier),
		Code: carrier,
	}
	if n.LogoURL != nil {
		airline.Logo = n.LogoURL(carrier)
	}

	tags := []string{}
	if r.OneWay {
		tags = append(tags, models.TagOneWay)
	}
	if isRefundable(r) {
		tags = append(tags, models.TagRefundable)
	}

	id := r.ID.String()
	if id == "" {
		id = fallbackID(segments, price)
	}

	return models.FlightOffer{
		ID:           id,
		Airline:      airline,
		FlightNumber: flightNumber,
		Aircraft:     lookup(aircraft(dict), first.Aircraft.Code),
		Departure:    offerPoint(first.Departure, dict),
		Arrival:      offerPoint(last.Arrival, dict),
		Duration:     itinerary.Duration,
		Stops:        stopsOf(segments),
		Price:        price,
		Currency:     currency,
		Tags:         tags,
	}
}

func offerPrice(p models.RawPrice) float64 {
	if v, ok := p.GrandTotal.Float(); ok {
		return v
	}
	if v, ok := p.Total.Float(); ok {
		return v
	}
	return 0
}

func stopsOf(segments []models.Segment) models.Stops {
	stops := models.Stops{Locations: []string{}}
	if len(segments) <= 1 {
		return stops
	}
	stops.Count = len(segments) - 1
	for _, seg := range segments[1 : len(segments)-1] {
		if seg.Departure.IataCode != "" {
			stops.Locations = append(stops.Locations, seg.Departure.IataCode)
		}
	}
	return stops
}

func isRefundable(r models.RawOffer) bool {
	if r.FareRules != nil {
		for _, rule := range r.FareRules.Rules {
			if rule.Category == "REFUND" && !rule.NotApplicable {
				return true
			}
		}
	}
	for _, tp := range r.TravelerPricings {
		for _, fd := range tp.FareDetailsBySegment {
			for _, a := range fd.Amenities {
				if strings.Contains(strings.ToLower(a.Description), "refund") {
					return true
				}
			}
		}
	}
	return false
}

func offerPoint(e models.Endpoint, dict *models.Dictionaries) models.OfferPoint {
	date, clock := splitTimestamp(e.At)
	city := e.IataCode
	if dict != nil {
		if loc, ok := dict.Locations[e.IataCode]; ok && loc.CityCode != "" {
			city = loc.CityCode
		}
	}
	return models.OfferPoint{
		City: city,
		Code: e.IataCode,
		Time: clock,
		Date: date,
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// splitTimestamp returns the UTC date ("2006-01-02") and clock ("15:04") of
// an ISO timestamp. Timestamps without an offset are read as UTC.
func splitTimestamp(at string) (string, string) {
	at = strings.TrimSpace(at)
	if at == "" {
		return "", ""
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, at)
		if err != nil {
			continue
		}
		iso := t.UTC().Format("2006-01-02T15:04:05")
		return iso[0:10], iso[11:16]
	}
	return "", ""
}

// fallbackID derives a stable id for offers the provider sent without one
// from every segment of the first itinerary and the price
func fallbackID(segments []models.Segment, price float64) string {
	h := sha1.New()
	for _, seg := range segments {
		for _, field := range []string{seg.CarrierCode, seg.Number.String(), seg.Departure.IataCode, seg.Departure.At} {
			h.Write([]byte(field))
			h.Write([]byte{0})
		}
		h.Write([]byte{1})
	}
	h.Write([]byte(strconv.FormatFloat(price, 'f', -1, 64)))
	return "offer-" + hex.EncodeToString(h.Sum(nil))[:12]
}

func lookup(table map[string]string, code string) string {
	if name, ok := table[code]; ok && name != "" {
		return name
	}
	return code
}

func carriers(dict *models.Dictionaries) map[string]string {
	if dict == nil {
		return nil
	}
	return dict.Carriers
}

func aircraft(dict *models.Dictionaries) map[string]string {
	if dict == nil {
		return nil
	}
	return dict.Aircraft
}

func currencies(dict *models.Dictionaries) map[string]string {
	if dict == nil {
		return nil
	}
	return dict.Currencies
}
