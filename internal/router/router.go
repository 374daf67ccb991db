package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/handlers"
)

// SetupRouter creates and configures the HTTP router. ws serves live
// pricing updates for a search token; nil leaves the route out.
func SetupRouter(h *handlers.Handler, ws http.HandlerFunc) *mux.Router {
	r := mux.NewRouter()

	// CORS middleware
	r.Use(corsMiddleware)

	// API routes
	api := r.PathPrefix("/api").Subrouter()

	// Search
	api.HandleFunc("/flights/search", h.SearchFlights).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/searches", h.ListSearches).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/searches/{token}", h.GetSearch).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/searches/{token}/offers/{id}", h.GetOffer).Methods(http.MethodGet, http.MethodOptions)

	// Pricing
	api.HandleFunc("/searches/{token}/offers/{id}/price", h.PriceOffer).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/pricing/{workflowId}", h.GetPricing).Methods(http.MethodGet, http.MethodOptions)

	// WebSocket for pricing updates
	if ws != nil {
		api.HandleFunc("/searches/{token}/ws", ws)
	}

	// Health check
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
