package search

import (
	"math"
	"testing"

	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDuration(d string) func(*models.FlightOffer) {
	return func(o *models.FlightOffer) { o.Duration = d }
}

func TestSort_RecommendedIsIdentity(t *testing.T) {
	offers := []models.FlightOffer{
		offer("c", withPrice(300)),
		offer("a", withPrice(100)),
		offer("b", withPrice(200)),
	}

	got := Sort(offers, SortRecommended)
	assert.Equal(t, ids(offers), ids(got))

	got = Sort(offers, SortKey("bogus"))
	assert.Equal(t, ids(offers), ids(got))
}

func TestSort_PriceAscending(t *testing.T) {
	offers := []models.FlightOffer{
		offer("300", withPrice(300)),
		offer("150", withPrice(150)),
	}

	got := Sort(offers, SortPriceAsc)
	assert.Equal(t, []string{"150", "300"}, ids(got))
	// input untouched
	assert.Equal(t, []string{"300", "150"}, ids(offers))
}

func TestSort_PriceAscendingIsNonDecreasingAndStable(t *testing.T) {
	offers := []models.FlightOffer{
		offer("a", withPrice(500)),
		offer("b", withPrice(120)),
		offer("c", withPrice(math.NaN())),
		offer("d", withPrice(120)),
		offer("e", withPrice(80)),
		offer("f", withPrice(0)),
	}

	got := Sort(offers, SortPriceAsc)
	require.Len(t, got, len(offers))
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, sortablePrice(got[i-1].Price), sortablePrice(got[i].Price))
	}
	assert.Equal(t, []string{"c", "f", "e", "b", "d", "a"}, ids(got))
}

func TestSort_DurationAscending(t *testing.T) {
	offers := []models.FlightOffer{
		offer("long", withDuration("PT12H30M")),
		offer("unknown", withDuration("n/a")),
		offer("short", withDuration("PT45M")),
		offer("mid", withDuration("4h 15m")),
	}

	got := Sort(offers, SortDurationAsc)
	assert.Equal(t, []string{"short", "mid", "long", "unknown"}, ids(got))
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		in       string
		expected int
	}{
		{in: "PT2H0M", expected: 120},
		{in: "PT2H", expected: 120},
		{in: "PT35M", expected: 35},
		{in: "1h 5m", expected: 65},
		{in: "", expected: math.MaxInt},
		{in: "soon", expected: math.MaxInt},
		{in: "99999999999999999999h", expected: math.MaxInt},
		{in: "99999999999999999999h 30m", expected: 30},
		{in: "PT3000000000H", expected: math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, DurationMinutes(tt.in))
		})
	}
}

func TestSort_DurationOutOfRangeSortsLast(t *testing.T) {
	offers := []models.FlightOffer{
		offer("huge", withDuration("99999999999999999999h")),
		offer("short", withDuration("PT1H")),
	}

	assert.Equal(t, []string{"short", "huge"}, ids(Sort(offers, SortDurationAsc)))
}

func TestParseSortKey(t *testing.T) {
	key, ok := ParseSortKey("PRICE_ASC")
	assert.True(t, ok)
	assert.Equal(t, SortPriceAsc, key)

	key, ok = ParseSortKey("")
	assert.True(t, ok)
	assert.Equal(t, SortRecommended, key)

	key, ok = ParseSortKey("cheapest")
	assert.False(t, ok)
	assert.Equal(t, SortRecommended, key)
}
