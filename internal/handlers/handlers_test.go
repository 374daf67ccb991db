package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/search"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/service"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/service/mocks"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type recordingAnnouncer struct {
	started []string
}

func (a *recordingAnnouncer) BroadcastPricingStarted(token, offerID string) {
	a.started = append(a.started, token+"/"+offerID)
}

func setupTestRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet)
	api.HandleFunc("/searches", h.ListSearches).Methods(http.MethodGet)
	api.HandleFunc("/searches/{token}", h.GetSearch).Methods(http.MethodGet)
	api.HandleFunc("/searches/{token}/offers/{id}", h.GetOffer).Methods(http.MethodGet)
	api.HandleFunc("/searches/{token}/offers/{id}/price", h.PriceOffer).Methods(http.MethodPost)
	api.HandleFunc("/pricing/{workflowId}", h.GetPricing).Methods(http.MethodGet)
	return r
}

func sampleResult() *models.SearchResult {
	return &models.SearchResult{
		Token:   "tok-1",
		Offers:  []models.FlightOffer{{ID: "1", Price: 199}},
		Total:   1,
		Visible: 10,
	}
}

func TestHandler_SearchFlights(t *testing.T) {
	mockSearch := new(mocks.MockSearchService)
	handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
	router := setupTestRouter(handler)

	expectedQuery := models.SearchQuery{
		Origin:        "SYD",
		Destination:   "MEL",
		DepartureDate: "2024-03-01",
		Adults:        2,
		TravelClass:   "ECONOMY",
		TripType:      models.TripTypeOneWay,
		NonStop:       true,
	}
	minPrice := 100.0
	expectedView := search.Query{
		Filter: search.FilterState{
			Airlines:       []string{"QF", "VA"},
			RefundableOnly: true,
			TimeSlot:       search.TimeSlotEarly,
			Stops:          []string{"0", "2+"},
			PriceMin:       &minPrice,
		},
		Sort:  search.SortPriceAsc,
		Count: 20,
	}

	mockSearch.On("Search", mock.Anything, expectedQuery, expectedView).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet,
		"/api/flights/search?origin=SYD&destination=MEL&depart=2024-03-01&adults=2&type=One+Way&nonStop=true"+
			"&airlines=QF,VA&refundable=true&time=early&stops=0,2%2B&minPrice=100&sort=price_asc&count=20", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response models.SearchResult
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", response.Token)
	assert.Len(t, response.Offers, 1)

	mockSearch.AssertExpectations(t)
}

func TestHandler_SearchFlights_Defaults(t *testing.T) {
	mockSearch := new(mocks.MockSearchService)
	handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
	router := setupTestRouter(handler)

	mockSearch.On("Search", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
		return q.Adults == 1 && q.Children == 0 && q.TripType == models.TripTypeRoundTrip && q.TravelClass == "ECONOMY"
	}), search.Query{Sort: search.SortRecommended, Count: search.DefaultCount}).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=SYD&destination=MEL&depart=2024-03-01", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSearch.AssertExpectations(t)
}

func TestHandler_SearchFlights_TokenOnly(t *testing.T) {
	mockSearch := new(mocks.MockSearchService)
	handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
	router := setupTestRouter(handler)

	mockSearch.On("Search", mock.Anything, mock.MatchedBy(func(q models.SearchQuery) bool {
		return q.Token == "tok-1"
	}), mock.Anything).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?k=tok-1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSearch.AssertExpectations(t)
}

func TestHandler_SearchFlights_BadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{name: "missing origin", query: "destination=MEL&depart=2024-03-01"},
		{name: "missing depart", query: "origin=SYD&destination=MEL"},
		{name: "invalid adults", query: "origin=SYD&destination=MEL&depart=2024-03-01&adults=two"},
		{name: "negative infants", query: "origin=SYD&destination=MEL&depart=2024-03-01&infants=-1"},
		{name: "invalid time slot", query: "origin=SYD&destination=MEL&depart=2024-03-01&time=noon"},
		{name: "invalid stops", query: "origin=SYD&destination=MEL&depart=2024-03-01&stops=3"},
		{name: "invalid min price", query: "origin=SYD&destination=MEL&depart=2024-03-01&minPrice=cheap"},
		{name: "invalid count", query: "origin=SYD&destination=MEL&depart=2024-03-01&count=ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSearch := new(mocks.MockSearchService)
			handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
			router := setupTestRouter(handler)

			req := httptest.NewRequest(http.MethodGet, "/api/flights/search?"+tt.query, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var response map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
			assert.NotEmpty(t, response["error"])
			mockSearch.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_SearchFlights_UnknownSortFallsBack(t *testing.T) {
	mockSearch := new(mocks.MockSearchService)
	handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
	router := setupTestRouter(handler)

	mockSearch.On("Search", mock.Anything, mock.Anything, mock.MatchedBy(func(v search.Query) bool {
		return v.Sort == search.SortRecommended
	})).Return(sampleResult(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/flights/search?origin=SYD&destination=MEL&depart=2024-03-01&sort=cheapest", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSearch.AssertExpectations(t)
}

func TestHandler_GetSearch(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *models.SearchResult
		mockError      error
		expectedStatus int
	}{
		{name: "search found", mockReturn: sampleResult(), expectedStatus: http.StatusOK},
		{name: "search expired", mockError: service.ErrSearchExpired, expectedStatus: http.StatusNotFound},
		{name: "cache failure", mockError: errors.New("redis down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSearch := new(mocks.MockSearchService)
			handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
			router := setupTestRouter(handler)

			mockSearch.On("Results", mock.Anything, "tok-1", search.Query{Sort: search.SortDurationAsc, Count: 30}).
				Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/searches/tok-1?sort=duration_asc&count=30", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockSearch.AssertExpectations(t)
		})
	}
}

func TestHandler_ListSearches(t *testing.T) {
	mockSearch := new(mocks.MockSearchService)
	handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
	router := setupTestRouter(handler)

	records := []database.SearchRecord{{Token: "tok-1", Origin: "SYD", Destination: "MEL", OfferCount: 3}}
	mockSearch.On("RecentSearches", mock.Anything, 5).Return(records, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/searches?limit=5", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response []database.SearchRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Len(t, response, 1)
	assert.Equal(t, "SYD", response[0].Origin)

	mockSearch.AssertExpectations(t)
}

func TestHandler_GetOffer(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *models.OfferDetail
		mockError      error
		expectedStatus int
	}{
		{
			name:           "offer found",
			mockReturn:     &models.OfferDetail{Token: "tok-1", Offer: models.FlightOffer{ID: "7"}},
			expectedStatus: http.StatusOK,
		},
		{name: "offer not found", mockError: service.ErrOfferNotFound, expectedStatus: http.StatusNotFound},
		{name: "search expired", mockError: service.ErrSearchExpired, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSearch := new(mocks.MockSearchService)
			handler := NewHandler(mockSearch, new(mocks.MockPricingService), nil)
			router := setupTestRouter(handler)

			mockSearch.On("Offer", mock.Anything, "tok-1", "7").Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/searches/tok-1/offers/7", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockSearch.AssertExpectations(t)
		})
	}
}

func TestHandler_PriceOffer(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *models.PricingWorkflowState
		mockError      error
		expectedStatus int
		announced      bool
	}{
		{
			name:           "pricing started",
			mockReturn:     &models.PricingWorkflowState{WorkflowID: "pricing-7-tok-1", Status: models.PricingStatusPending},
			expectedStatus: http.StatusAccepted,
			announced:      true,
		},
		{name: "offer not found", mockError: service.ErrOfferNotFound, expectedStatus: http.StatusNotFound},
		{name: "temporal unavailable", mockError: errors.New("failed to start workflow: unavailable"), expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPricing := new(mocks.MockPricingService)
			announcer := &recordingAnnouncer{}
			handler := NewHandler(new(mocks.MockSearchService), mockPricing, announcer)
			router := setupTestRouter(handler)

			mockPricing.On("StartPricing", mock.Anything, "tok-1", "7").Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodPost, "/api/searches/tok-1/offers/7/price", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.announced {
				assert.Equal(t, []string{"tok-1/7"}, announcer.started)
			} else {
				assert.Empty(t, announcer.started)
			}
			mockPricing.AssertExpectations(t)
		})
	}
}

func TestHandler_GetPricing(t *testing.T) {
	tests := []struct {
		name           string
		mockReturn     *models.PricingWorkflowState
		mockError      error
		expectedStatus int
	}{
		{
			name:           "pricing found",
			mockReturn:     &models.PricingWorkflowState{WorkflowID: "pricing-7-tok-1", Status: models.PricingStatusPriced, PricedTotal: 210},
			expectedStatus: http.StatusOK,
		},
		{name: "pricing not found", mockError: service.ErrPricingNotFound, expectedStatus: http.StatusNotFound},
		{name: "query failure", mockError: errors.New("deadline exceeded"), expectedStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPricing := new(mocks.MockPricingService)
			handler := NewHandler(new(mocks.MockSearchService), mockPricing, nil)
			router := setupTestRouter(handler)

			mockPricing.On("GetPricing", mock.Anything, "pricing-7-tok-1").Return(tt.mockReturn, tt.mockError)

			req := httptest.NewRequest(http.MethodGet, "/api/pricing/pricing-7-tok-1", nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			mockPricing.AssertExpectations(t)
		})
	}
}

func TestHandler_HealthCheck(t *testing.T) {
	handler := NewHandler(new(mocks.MockSearchService), new(mocks.MockPricingService), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
