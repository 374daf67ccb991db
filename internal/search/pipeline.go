package search

import "github.com/hello2026ai/skytrips-admin-sub003/shared/models"

// Query is the control state of one results view
type Query struct {
	Filter FilterState
	Sort   SortKey
	Count  int
}

// View is the rendered result of one pipeline run
type View struct {
	Offers  []models.FlightOffer
	Total   int
	HasMore bool
	Index   OfferIndex
}

// Run normalizes the payload, then filters, sorts and windows it
func (n *Normalizer) Run(payload models.SearchPayload, q Query) View {
	offers, index := n.Normalize(payload.Data, payload.Dictionaries)
	filtered := Filter(offers, q.Filter)
	sorted := Sort(filtered, q.Sort)
	visible := Visible(sorted, q.Count)

	return View{
		Offers:  visible,
		Total:   len(sorted),
		HasMore: len(visible) < len(sorted),
		Index:   index,
	}
}

// Run runs the pipeline with the default Normalizer
func Run(payload models.SearchPayload, q Query) View {
	return (&Normalizer{}).Run(payload, q)
}
