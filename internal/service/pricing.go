package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
)

var ErrPricingNotFound = errors.New("pricing not found")

// PricingService defines the offer pricing service interface
type PricingService interface {
	StartPricing(ctx context.Context, token, offerID string) (*models.PricingWorkflowState, error)
	GetPricing(ctx context.Context, workflowID string) (*models.PricingWorkflowState, error)
}

// WorkflowClient is the part of the Temporal client the pricing service uses
type WorkflowClient interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
	QueryWorkflow(ctx context.Context, workflowID string, runID string, queryType string, args ...interface{}) (converter.EncodedValue, error)
}

// PricingStore reads pricing results written by the worker
type PricingStore interface {
	GetPricing(ctx context.Context, workflowID string) (*database.PricingRecord, error)
}

// Notifier receives the final state of a pricing run
type Notifier interface {
	NotifyPricing(token string, state models.PricingWorkflowState)
}

// pricingServiceImpl implements PricingService
type pricingServiceImpl struct {
	temporalClient WorkflowClient
	searches       SearchService
	store          PricingStore
	notifier       Notifier
	waitTimeout    time.Duration
}

// NewPricingService creates a new PricingService. store and notifier may be nil.
func NewPricingService(c WorkflowClient, searches SearchService, store PricingStore, notifier Notifier) PricingService {
	return &pricingServiceImpl{
		temporalClient: c,
		searches:       searches,
		store:          store,
		notifier:       notifier,
		waitTimeout:    5 * time.Minute,
	}
}

func (s *pricingServiceImpl) StartPricing(ctx context.Context, token, offerID string) (*models.PricingWorkflowState, error) {
	detail, err := s.searches.Offer(ctx, token, offerID)
	if err != nil {
		return nil, err
	}

	workflowID := models.PricingWorkflowID(token, offerID)
	input := models.PricingWorkflowInput{
		Token:    token,
		OfferID:  offerID,
		RawOffer: detail.Raw,
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: models.PricingTaskQueue,
	}

	run, err := s.temporalClient.ExecuteWorkflow(ctx, workflowOptions, models.PricingWorkflowName, input)
	if err != nil {
		return nil, fmt.Errorf("failed to start workflow: %w", err)
	}

	if s.notifier != nil {
		go s.await(run, token, workflowID, offerID)
	}

	now := time.Now()
	return &models.PricingWorkflowState{
		WorkflowID:  workflowID,
		Token:       token,
		OfferID:     offerID,
		Status:      models.PricingStatusPending,
		QuotedPrice: detail.Offer.Price,
		Currency:    detail.Offer.Currency,
		StartedAt:   now,
		LastUpdated: now,
	}, nil
}

// await blocks until the run finishes and forwards its result to the notifier
func (s *pricingServiceImpl) await(run client.WorkflowRun, token, workflowID, offerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.waitTimeout)
	defer cancel()

	var state models.PricingWorkflowState
	if err := run.Get(ctx, &state); err != nil {
		log.Printf("Pricing workflow %s failed: %v", workflowID, err)
		state = models.PricingWorkflowState{
			WorkflowID:    workflowID,
			Token:         token,
			OfferID:       offerID,
			Status:        models.PricingStatusFailed,
			FailureReason: err.Error(),
			LastUpdated:   time.Now(),
		}
	}
	s.notifier.NotifyPricing(token, state)
}

func (s *pricingServiceImpl) GetPricing(ctx context.Context, workflowID string) (*models.PricingWorkflowState, error) {
	response, queryErr := s.temporalClient.QueryWorkflow(ctx, workflowID, "", models.QueryGetState)
	if queryErr == nil {
		var state models.PricingWorkflowState
		if err := response.Get(&state); err != nil {
			return nil, fmt.Errorf("failed to decode workflow state: %w", err)
		}
		return &state, nil
	}

	// Closed workflows may be gone from Temporal; the worker stored the outcome.
	if s.store == nil {
		return nil, fmt.Errorf("failed to query workflow: %w", queryErr)
	}
	rec, err := s.store.GetPricing(ctx, workflowID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrPricingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow: %w", queryErr)
	}
	return stateFromRecord(rec), nil
}

func stateFromRecord(rec *database.PricingRecord) *models.PricingWorkflowState {
	return &models.PricingWorkflowState{
		WorkflowID:        rec.WorkflowID,
		Token:             rec.Token,
		OfferID:           rec.OfferID,
		Status:            models.PricingStatus(rec.Status),
		QuotedPrice:       rec.QuotedPrice,
		PricedTotal:       rec.PricedTotal,
		Currency:          rec.Currency,
		LastTicketingDate: rec.LastTicketingDate,
		PriceChanged:      rec.PriceChanged,
		FailureReason:     rec.FailureReason,
		StartedAt:         rec.CreatedAt,
		LastUpdated:       rec.UpdatedAt,
	}
}
