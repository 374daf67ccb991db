package workflows

import (
	"errors"
	"math"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/activities"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// PricingTimeout bounds a single provider pricing call
	PricingTimeout = 30 * time.Second
	// MaxPricingAttempts is the maximum number of provider pricing attempts
	MaxPricingAttempts = 3
	// PriceTolerance is the smallest difference reported as a price change
	PriceTolerance = 0.005
)

// OfferPricingWorkflow re-prices one offer of a search and records the outcome
func OfferPricingWorkflow(ctx workflow.Context, input models.PricingWorkflowInput) (*models.PricingWorkflowState, error) {
	logger := workflow.GetLogger(ctx)
	info := workflow.GetInfo(ctx)
	logger.Info("Pricing workflow started", "offerId", input.OfferID, "token", input.Token)

	now := workflow.Now(ctx)
	state := &models.PricingWorkflowState{
		WorkflowID:  info.WorkflowExecution.ID,
		Token:       input.Token,
		OfferID:     input.OfferID,
		Status:      models.PricingStatusPricing,
		QuotedPrice: quotedPrice(input.RawOffer.Price),
		Currency:    input.RawOffer.Price.Currency,
		StartedAt:   now,
		LastUpdated: now,
	}

	if err := workflow.SetQueryHandler(ctx, models.QueryGetState, func() (*models.PricingWorkflowState, error) {
		return state, nil
	}); err != nil {
		return nil, err
	}

	pricingCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: PricingTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    MaxPricingAttempts,
		},
	})
	recordCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	})

	var result models.PriceOfferResult
	err := workflow.ExecuteActivity(pricingCtx, activities.PriceOfferName, activities.PriceOfferInput{
		WorkflowID: state.WorkflowID,
		OfferID:    input.OfferID,
		Offer:      input.RawOffer,
	}).Get(ctx, &result)
	if err != nil {
		logger.Error("Offer pricing failed", "offerId", input.OfferID, "error", err)
		fail(ctx, recordCtx, state, err)
		return state, nil
	}

	state.PricedTotal = result.Total
	if result.Currency != "" {
		state.Currency = result.Currency
	}
	state.LastTicketingDate = firstNonEmpty(result.LastTicketingDate, input.RawOffer.LastTicketingDate)
	state.PriceChanged = math.Abs(result.Total-state.QuotedPrice) >= PriceTolerance
	state.Status = models.PricingStatusPriced
	state.LastUpdated = workflow.Now(ctx)

	if err := workflow.ExecuteActivity(recordCtx, activities.SavePricingName, *state).Get(ctx, nil); err != nil {
		logger.Error("Failed to save pricing", "error", err)
		fail(ctx, recordCtx, state, err)
		return state, nil
	}

	if err := workflow.ExecuteActivity(recordCtx, activities.PublishPricingName, *state).Get(ctx, nil); err != nil {
		// The priced row is already stored; a missed event is not a pricing failure.
		logger.Warn("Failed to publish pricing event", "error", err)
	}

	logger.Info("Pricing workflow completed", "offerId", input.OfferID,
		"quoted", state.QuotedPrice, "priced", state.PricedTotal, "changed", state.PriceChanged)
	return state, nil
}

// fail marks the state failed and records it; recording errors are only logged
func fail(ctx, recordCtx workflow.Context, state *models.PricingWorkflowState, cause error) {
	state.Status = models.PricingStatusFailed
	state.FailureReason = failureReason(cause)
	state.LastUpdated = workflow.Now(ctx)

	logger := workflow.GetLogger(ctx)
	if err := workflow.ExecuteActivity(recordCtx, activities.SavePricingName, *state).Get(ctx, nil); err != nil {
		logger.Error("Failed to save failed pricing", "error", err)
	}
	if err := workflow.ExecuteActivity(recordCtx, activities.PublishPricingName, *state).Get(ctx, nil); err != nil {
		logger.Warn("Failed to publish pricing event", "error", err)
	}
}

// failureReason unwraps activity errors down to the application message
func failureReason(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

func quotedPrice(p models.RawPrice) float64 {
	if v, ok := p.GrandTotal.Float(); ok {
		return v
	}
	if v, ok := p.Total.Float(); ok {
		return v
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
