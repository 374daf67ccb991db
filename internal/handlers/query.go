package handlers

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/provider"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/search"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

// parseSearchQuery reads the provider search parameters. Origin, destination
// and departure date are required unless a cache token k is given.
func parseSearchQuery(q url.Values) (models.SearchQuery, error) {
	sq := models.SearchQuery{
		Origin:        strings.TrimSpace(q.Get("origin")),
		Destination:   strings.TrimSpace(q.Get("destination")),
		DepartureDate: strings.TrimSpace(q.Get("depart")),
		ReturnDate:    strings.TrimSpace(q.Get("return")),
		TravelClass:   provider.TravelClass(q.Get("class")),
		TripType:      firstNotEmpty(strings.TrimSpace(q.Get("type")), models.TripTypeRoundTrip),
		NonStop:       q.Get("nonStop") == "true",
		Token:         strings.TrimSpace(q.Get("k")),
	}

	var err error
	if sq.Adults, err = parseCount(q, "adults", 1); err != nil {
		return sq, err
	}
	if sq.Children, err = parseCount(q, "children", 0); err != nil {
		return sq, err
	}
	if sq.Infants, err = parseCount(q, "infants", 0); err != nil {
		return sq, err
	}

	if sq.Token != "" {
		return sq, nil
	}
	if provider.ParseIATA(sq.Origin) == "" || provider.ParseIATA(sq.Destination) == "" || sq.DepartureDate == "" {
		return sq, fmt.Errorf("origin, destination and depart are required")
	}
	return sq, nil
}

func parseCount(q url.Values, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(q.Get(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parseView reads the filter, sort and count parameters of a results view
func parseView(q url.Values) (search.Query, error) {
	view := search.Query{Count: search.DefaultCount}

	view.Filter.Airlines = parseListFilter(q, "airlines", "airline")
	view.Filter.DirectOnly = parseBool(q.Get("direct"))
	view.Filter.RefundableOnly = parseBool(q.Get("refundable"))

	slot, ok := search.ParseTimeSlot(q.Get("time"))
	if !ok {
		return view, fmt.Errorf("invalid time filter")
	}
	view.Filter.TimeSlot = slot

	for _, stop := range parseListFilter(q, "stops", "stop") {
		switch stop {
		case search.StopsDirect, search.StopsOne, search.StopsTwoPlus:
			view.Filter.Stops = append(view.Filter.Stops, stop)
		default:
			return view, fmt.Errorf("invalid stops filter %q", stop)
		}
	}

	var err error
	if view.Filter.PriceMin, err = parsePriceFilter(q, "minPrice", "invalid minPrice"); err != nil {
		return view, err
	}
	if view.Filter.PriceMax, err = parsePriceFilter(q, "maxPrice", "invalid maxPrice"); err != nil {
		return view, err
	}

	// Unknown sort keys fall back to the provider order.
	view.Sort, _ = search.ParseSortKey(q.Get("sort"))

	if value := strings.TrimSpace(q.Get("count")); value != "" {
		count, err := strconv.Atoi(value)
		if err != nil {
			return view, fmt.Errorf("invalid count")
		}
		view.Count = count
	}

	return view, nil
}

func parsePriceFilter(q url.Values, key, errMsg string) (*float64, error) {
	value := strings.TrimSpace(q.Get(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, fmt.Errorf("%s", errMsg)
	}
	return &parsed, nil
}

func parseListFilter(q url.Values, key, altKey string) []string {
	var out []string
	values := q[key]
	if len(values) == 0 {
		values = q[altKey]
	}
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func firstNotEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func parseLimit(q url.Values, defaultValue int) int {
	n, err := strconv.Atoi(q.Get("limit"))
	if err != nil || n <= 0 {
		return defaultValue
	}
	if n > 100 {
		return 100
	}
	return n
}
