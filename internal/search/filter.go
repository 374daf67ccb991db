package search

import (
	"math"
	"strconv"
	"strings"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

// TimeSlot is a departure time-of-day bucket
type TimeSlot string

const (
	TimeSlotNone    TimeSlot = ""
	TimeSlotEarly   TimeSlot = "early"
	TimeSlotDaytime TimeSlot = "daytime"
	TimeSlotEvening TimeSlot = "evening"
	TimeSlotNight   TimeSlot = "night"
)

// ParseTimeSlot returns the slot for s; ok is false for unknown values
func ParseTimeSlot(s string) (TimeSlot, bool) {
	switch slot := TimeSlot(strings.ToLower(strings.TrimSpace(s))); slot {
	case TimeSlotNone, TimeSlotEarly, TimeSlotDaytime, TimeSlotEvening, TimeSlotNight:
		return slot, true
	default:
		return TimeSlotNone, false
	}
}

// window returns the half-open [start, end) minute range of the slot
func (s TimeSlot) window() (int, int) {
	switch s {
	case TimeSlotEarly:
		return 0, 360
	case TimeSlotDaytime:
		return 360, 720
	case TimeSlotEvening:
		return 720, 1080
	case TimeSlotNight:
		return 1080, 1440
	default:
		return 0, 0
	}
}

// Stop buckets used by FilterState.Stops
const (
	StopsDirect  = "0"
	StopsOne     = "1"
	StopsTwoPlus = "2+"
)

// FilterState is the set of user-selected facets. The zero value keeps
// every offer.
type FilterState struct {
	Airlines       []string
	DirectOnly     bool
	RefundableOnly bool
	TimeSlot       TimeSlot
	Stops          []string
	PriceMin       *float64
	PriceMax       *float64
}

// Filter returns the offers that pass every active predicate, in input order
func Filter(offers []models.FlightOffer, state FilterState) []models.FlightOffer {
	airlines := normalizeSet(state.Airlines)
	stops := normalizeSet(state.Stops)

	filtered := make([]models.FlightOffer, 0, len(offers))
	for _, offer := range offers {
		if !matchAirline(offer, airlines) {
			continue
		}
		if state.DirectOnly && offer.Stops.Count != 0 {
			continue
		}
		if state.RefundableOnly && !hasTag(offer, models.TagRefundable) {
			continue
		}
		if !matchTimeSlot(offer, state.TimeSlot) {
			continue
		}
		if !matchStops(offer, stops) {
			continue
		}
		if !matchPrice(offer, state.PriceMin, state.PriceMax) {
			continue
		}
		filtered = append(filtered, offer)
	}
	return filtered
}

func matchAirline(o models.FlightOffer, airlines map[string]struct{}) bool {
	if len(airlines) == 0 {
		return true
	}
	_, ok := airlines[strings.ToLower(o.Airline.Code)]
	return ok
}

func hasTag(o models.FlightOffer, tag string) bool {
	for _, t := range o.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

func matchTimeSlot(o models.FlightOffer, slot TimeSlot) bool {
	if slot == TimeSlotNone {
		return true
	}
	minutes, ok := minutesSinceMidnight(o.Departure.Time)
	if !ok {
		return false
	}
	start, end := slot.window()
	return minutes >= start && minutes < end
}

// minutesSinceMidnight parses "HH:MM"
func minutesSinceMidnight(clock string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(clock), ":")
	if !found {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

func stopBucket(count int) string {
	switch {
	case count <= 0:
		return StopsDirect
	case count == 1:
		return StopsOne
	default:
		return StopsTwoPlus
	}
}

func matchStops(o models.FlightOffer, stops map[string]struct{}) bool {
	if len(stops) == 0 {
		return true
	}
	_, ok := stops[stopBucket(o.Stops.Count)]
	return ok
}

func matchPrice(o models.FlightOffer, min, max *float64) bool {
	price := o.Price
	if math.IsNaN(price) {
		price = 0
	}
	if min != nil && price < *min {
		return false
	}
	if max != nil && price > *max {
		return false
	}
	return true
}

func normalizeSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		value = strings.ToLower(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}
