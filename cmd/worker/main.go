package main

import (
	"context"
	"log"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/activities"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/config"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/database"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/events"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/provider"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/workflows"
	"github.com/hello2026ai/skytrips-admin-sub003/shared/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	// Connect to database
	log.Println("Connecting to database...")
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Connected to database")

	// Create repository
	repo := database.NewRepository(pool)

	publisher, err := events.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	providerClient := provider.NewClient(provider.Options{
		SearchBaseURL:  cfg.SearchAPIBaseURL,
		PricingBaseURL: cfg.PricingAPIBaseURL,
		ClientRef:      cfg.ClientRef,
		CurrencyCode:   cfg.CurrencyCode,
		Timeout:        cfg.HTTPTimeout,
	})

	// Connect to Temporal
	log.Printf("Connecting to Temporal at %s...", cfg.TemporalHost)
	c, err := client.Dial(client.Options{
		HostPort: cfg.TemporalHost,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Temporal: %v", err)
	}
	defer c.Close()
	log.Println("Connected to Temporal")

	// Create worker
	w := worker.New(c, models.PricingTaskQueue, worker.Options{})

	// Register workflows
	w.RegisterWorkflowWithOptions(workflows.OfferPricingWorkflow, workflow.RegisterOptions{Name: models.PricingWorkflowName})

	// Create and register activities
	acts := activities.NewActivities(providerClient, repo, publisher)
	w.RegisterActivityWithOptions(acts.PriceOffer, activity.RegisterOptions{Name: activities.PriceOfferName})
	w.RegisterActivityWithOptions(acts.SavePricing, activity.RegisterOptions{Name: activities.SavePricingName})
	w.RegisterActivityWithOptions(acts.PublishPricing, activity.RegisterOptions{Name: activities.PublishPricingName})

	// Start worker
	log.Println("Starting Temporal worker...")
	err = w.Run(worker.InterruptCh())
	if err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
