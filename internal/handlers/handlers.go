package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/service"
)

// Announcer tells live clients that pricing started for an offer
type Announcer interface {
	BroadcastPricingStarted(token, offerID string)
}

// Handler contains HTTP handlers for the API
type Handler struct {
	searchService  service.SearchService
	pricingService service.PricingService
	announcer      Announcer
}

// NewHandler creates a new Handler instance. announcer may be nil.
func NewHandler(searchService service.SearchService, pricingService service.PricingService, announcer Announcer) *Handler {
	return &Handler{
		searchService:  searchService,
		pricingService: pricingService,
		announcer:      announcer,
	}
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode response: %v", err)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// SearchFlights handles GET /api/flights/search
func (h *Handler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sq, err := parseSearchQuery(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	view, err := parseView(q)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.searchService.Search(r.Context(), sq, view)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ListSearches handles GET /api/searches
func (h *Handler) ListSearches(w http.ResponseWriter, r *http.Request) {
	searches, err := h.searchService.RecentSearches(r.Context(), parseLimit(r.URL.Query(), 20))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load searches")
		return
	}
	respondJSON(w, http.StatusOK, searches)
}

// GetSearch handles GET /api/searches/{token}
func (h *Handler) GetSearch(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	view, err := parseView(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.searchService.Results(r.Context(), token, view)
	if err != nil {
		if errors.Is(err, service.ErrSearchExpired) {
			respondError(w, http.StatusNotFound, "Search not found or expired")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetOffer handles GET /api/searches/{token}/offers/{id}
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	detail, err := h.searchService.Offer(r.Context(), vars["token"], vars["id"])
	if err != nil {
		respondOfferError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// PriceOffer handles POST /api/searches/{token}/offers/{id}/price
func (h *Handler) PriceOffer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token, offerID := vars["token"], vars["id"]

	state, err := h.pricingService.StartPricing(r.Context(), token, offerID)
	if err != nil {
		if errors.Is(err, service.ErrSearchExpired) || errors.Is(err, service.ErrOfferNotFound) {
			respondOfferError(w, err)
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}

	if h.announcer != nil {
		h.announcer.BroadcastPricingStarted(token, offerID)
	}
	respondJSON(w, http.StatusAccepted, state)
}

// GetPricing handles GET /api/pricing/{workflowId}
func (h *Handler) GetPricing(w http.ResponseWriter, r *http.Request) {
	workflowID := mux.Vars(r)["workflowId"]

	state, err := h.pricingService.GetPricing(r.Context(), workflowID)
	if err != nil {
		if errors.Is(err, service.ErrPricingNotFound) {
			respondError(w, http.StatusNotFound, "Pricing not found")
			return
		}
		respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, state)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func respondOfferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSearchExpired):
		respondError(w, http.StatusNotFound, "Search not found or expired")
	case errors.Is(err, service.ErrOfferNotFound):
		respondError(w, http.StatusNotFound, "Offer not found")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}
