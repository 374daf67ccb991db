package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/cache"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/config"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/events"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/handlers"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/provider"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/router"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/search"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/service"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/client"
)

func main() {
	cfg := config.Load()
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Connect to database
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")
	repo := database.NewRepository(pool)

	// Connect to Redis
	searchCache, err := cache.New(cfg.RedisAddr, cfg.SearchCacheTTL)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer searchCache.Close()
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	// Connect to NATS; an empty NATS_URL disables events
	publisher, err := events.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	// Create Temporal client
	temporalClient, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer temporalClient.Close()

	providerClient := provider.NewClient(provider.Options{
		SearchBaseURL:  cfg.SearchAPIBaseURL,
		PricingBaseURL: cfg.PricingAPIBaseURL,
		ClientRef:      cfg.ClientRef,
		CurrencyCode:   cfg.CurrencyCode,
		Timeout:        cfg.HTTPTimeout,
	})

	// WebSocket hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Initialize services
	searchService := service.NewSearchService(providerClient, searchCache, repo, publisher, search.NewNormalizer(cfg.AirlineLogoURL))
	pricingService := service.NewPricingService(temporalClient, searchService, repo, hub)

	// Initialize handlers
	h := handlers.NewHandler(searchService, pricingService, hub)

	// Create router
	r := router.SetupRouter(h, hub.ServeSearch)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HTTPTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API Server starting on port %s", cfg.Port)
		log.Printf("Connected to Temporal server at %s", cfg.TemporalHost)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
