package search

import "github.com/hello2026ai/skytrips-admin-sub003/shared/models"

const (
	// DefaultCount is the number of offers shown before any "load more"
	DefaultCount = 10
	// CountStep is how many offers each "load more" adds
	CountStep = 10
)

// Visible returns the first count offers in order. A negative count yields
// an empty slice; a count past the end yields every offer.
func Visible(sorted []models.FlightOffer, count int) []models.FlightOffer {
	if count <= 0 {
		return []models.FlightOffer{}
	}
	if count > len(sorted) {
		count = len(sorted)
	}
	visible := make([]models.FlightOffer, count)
	copy(visible, sorted[:count])
	return visible
}

// NextCount is the visible count after one "load more"
func NextCount(count int) int {
	if count < 0 {
		count = 0
	}
	return count + CountStep
}
