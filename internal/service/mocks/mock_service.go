package mocks

import (
	"context"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/search"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/stretchr/testify/mock"
)

// MockSearchService is a mock implementation of SearchService
type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, q models.SearchQuery, view search.Query) (*models.SearchResult, error) {
	args := m.Called(ctx, q, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

func (m *MockSearchService) Results(ctx context.Context, token string, view search.Query) (*models.SearchResult, error) {
	args := m.Called(ctx, token, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResult), args.Error(1)
}

func (m *MockSearchService) Offer(ctx context.Context, token, offerID string) (*models.OfferDetail, error) {
	args := m.Called(ctx, token, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OfferDetail), args.Error(1)
}

func (m *MockSearchService) RecentSearches(ctx context.Context, limit int) ([]database.SearchRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]database.SearchRecord), args.Error(1)
}

// MockPricingService is a mock implementation of PricingService
type MockPricingService struct {
	mock.Mock
}

func (m *MockPricingService) StartPricing(ctx context.Context, token, offerID string) (*models.PricingWorkflowState, error) {
	args := m.Called(ctx, token, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingWorkflowState), args.Error(1)
}

func (m *MockPricingService) GetPricing(ctx context.Context, workflowID string) (*models.PricingWorkflowState, error) {
	args := m.Called(ctx, workflowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PricingWorkflowState), args.Error(1)
}
