package search

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
)

// SortKey selects the result ordering
type SortKey string

const (
	SortRecommended SortKey = "recommended"
	SortPriceAsc    SortKey = "price_asc"
	SortDurationAsc SortKey = "duration_asc"
)

// ParseSortKey maps a query value to a SortKey. Empty and unknown values
// fall back to SortRecommended; ok is false only for unknown values.
func ParseSortKey(s string) (SortKey, bool) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return SortRecommended, true
	case SortRecommended, SortPriceAsc, SortDurationAsc:
		return key, true
	default:
		return SortRecommended, false
	}
}

// Sort returns a sorted copy of offers. SortRecommended keeps the provider
// order.
func Sort(offers []models.FlightOffer, key SortKey) []models.FlightOffer {
	sorted := make([]models.FlightOffer, len(offers))
	copy(sorted, offers)

	switch key {
	case SortPriceAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return sortablePrice(sorted[i].Price) < sortablePrice(sorted[j].Price)
		})
	case SortDurationAsc:
		minutes := make(map[string]int, len(sorted))
		for _, o := range sorted {
			if _, ok := minutes[o.Duration]; !ok {
				minutes[o.Duration] = DurationMinutes(o.Duration)
			}
		}
		sort.SliceStable(sorted, func(i, j int) bool {
			return minutes[sorted[i].Duration] < minutes[sorted[j].Duration]
		})
	}
	return sorted
}

func sortablePrice(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return p
}

var (
	hoursPattern   = regexp.MustCompile(`(?i)(\d+)\s*h`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+)\s*m`)
)

// maxTokenValue bounds a single duration token so the minute total cannot overflow
const maxTokenValue = math.MaxInt32

// DurationMinutes reads "<N>h" and "<N>m" tokens from a duration such as
// "PT4H15M" or "4h 15m". A string with neither usable token yields
// math.MaxInt so it sorts last; out-of-range tokens count as absent.
func DurationMinutes(d string) int {
	hours, okH := durationToken(hoursPattern, d)
	minutes, okM := durationToken(minutesPattern, d)
	if !okH && !okM {
		return math.MaxInt
	}
	return hours*60 + minutes
}

func durationToken(pattern *regexp.Regexp, d string) (int, bool) {
	m := pattern.FindStringSubmatch(d)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(m[1])
	if err != nil || v > maxTokenValue {
		return 0, false
	}
	return v, true
}
