package activities

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/events"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/provider"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
)

// Activity names as registered on the worker
const (
	PriceOfferName     = "PriceOffer"
	SavePricingName    = "SavePricing"
	PublishPricingName = "PublishPricing"
)

// Pricer re-prices a raw offer with the provider
type Pricer interface {
	Price(ctx context.Context, offer models.RawOffer) (*models.PriceOfferResult, error)
}

// PricingRecorder persists pricing outcomes
type PricingRecorder interface {
	SavePricing(ctx context.Context, rec *database.PricingRecord) error
}

// Activities holds the dependencies of the pricing activities
type Activities struct {
	pricer    Pricer
	store     PricingRecorder
	publisher events.Publisher
}

// NewActivities creates a new Activities instance. publisher may be nil.
func NewActivities(pricer Pricer, store PricingRecorder, publisher events.Publisher) *Activities {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Activities{
		pricer:    pricer,
		store:     store,
		publisher: publisher,
	}
}

// PriceOfferInput is the input for the PriceOffer activity
type PriceOfferInput struct {
	WorkflowID string          `json:"workflowId"`
	OfferID    string          `json:"offerId"`
	Offer      models.RawOffer `json:"offer"`
}

// PriceOffer calls the provider pricing endpoint. Client errors other than
// throttling are not retried.
func (a *Activities) PriceOffer(ctx context.Context, input PriceOfferInput) (*models.PriceOfferResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Pricing offer", "workflowId", input.WorkflowID, "offerId", input.OfferID)

	result, err := a.pricer.Price(ctx, input.Offer)
	if err != nil {
		if apiErr, ok := provider.AsAPIError(err); ok && nonRetryable(apiErr.StatusCode) {
			logger.Warn("Offer rejected by provider", "offerId", input.OfferID, "status", apiErr.StatusCode)
			return nil, temporal.NewNonRetryableApplicationError(apiErr.Error(), "ProviderRejected", err)
		}
		logger.Error("Pricing failed", "offerId", input.OfferID, "error", err)
		return nil, fmt.Errorf("failed to price offer %s: %w", input.OfferID, err)
	}

	logger.Info("Offer priced", "offerId", input.OfferID, "total", result.Total, "currency", result.Currency)
	return result, nil
}

func nonRetryable(status int) bool {
	return status >= 400 && status < 500 &&
		status != http.StatusTooManyRequests && status != http.StatusRequestTimeout
}

// SavePricing stores the pricing state
func (a *Activities) SavePricing(ctx context.Context, state models.PricingWorkflowState) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Saving pricing", "workflowId", state.WorkflowID, "status", state.Status)

	if a.store == nil {
		return errors.New("pricing store not configured")
	}

	rec := &database.PricingRecord{
		WorkflowID:        state.WorkflowID,
		Token:             state.Token,
		OfferID:           state.OfferID,
		Status:            string(state.Status),
		QuotedPrice:       state.QuotedPrice,
		PricedTotal:       state.PricedTotal,
		Currency:          state.Currency,
		LastTicketingDate: state.LastTicketingDate,
		PriceChanged:      state.PriceChanged,
		FailureReason:     state.FailureReason,
		CreatedAt:         state.StartedAt,
	}
	return a.store.SavePricing(ctx, rec)
}

// PublishPricing publishes the pricing state on the event stream
func (a *Activities) PublishPricing(ctx context.Context, state models.PricingWorkflowState) error {
	logger := activity.GetLogger(ctx)
	logger.Info("Publishing pricing event", "workflowId", state.WorkflowID, "status", state.Status)

	if err := a.publisher.PublishPricing(ctx, state); err != nil {
		return fmt.Errorf("failed to publish pricing event: %w", err)
	}
	return nil
}
