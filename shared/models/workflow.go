package models

import "time"

// PricingWorkflowInput is the input for the offer pricing workflow
type PricingWorkflowInput struct {
	Token    string   `json:"token"`
	OfferID  string   `json:"offerId"`
	RawOffer RawOffer `json:"rawOffer"`
}

// PricingWorkflowState is the current state of an offer pricing run
type PricingWorkflowState struct {
	WorkflowID        string        `json:"workflowId"`
	Token             string        `json:"token"`
	OfferID           string        `json:"offerId"`
	Status            PricingStatus `json:"status"`
	QuotedPrice       float64       `json:"quotedPrice"`
	PricedTotal       float64       `json:"pricedTotal"`
	Currency          string        `json:"currency,omitempty"`
	LastTicketingDate string        `json:"lastTicketingDate,omitempty"`
	PriceChanged      bool          `json:"priceChanged"`
	FailureReason     string        `json:"failureReason,omitempty"`
	StartedAt         time.Time     `json:"startedAt"`
	LastUpdated       time.Time     `json:"lastUpdated"`
}

type PricingStatus string

const (
	PricingStatusPending PricingStatus = "pending"
	PricingStatusPricing PricingStatus = "pricing"
	PricingStatusPriced  PricingStatus = "priced"
	PricingStatusFailed  PricingStatus = "failed"
)

const (
	PricingTaskQueue    = "offer-pricing-queue"
	PricingWorkflowName = "OfferPricingWorkflow"
)

// PricingWorkflowID is the workflow id for pricing one offer of one search
func PricingWorkflowID(token, offerID string) string {
	return "pricing-" + offerID + "-" + token
}

// Queries for workflow state
const (
	QueryGetState = "get_state"
)

// Activity results
type PriceOfferResult struct {
	Total             float64 `json:"total"`
	Currency          string  `json:"currency"`
	LastTicketingDate string  `json:"lastTicketingDate,omitempty"`
}
