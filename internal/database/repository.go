package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound = errors.New("not found")
)

// DB is the subset of pgxpool.Pool the repository uses
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository handles all database operations
type Repository struct {
	db DB
}

// NewRepository creates a new repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// --- Search audit ---

// RecordSearch inserts a searches row. ID and CreatedAt are filled in when zero.
func (r *Repository) RecordSearch(ctx context.Context, rec *SearchRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO searches (
			id, token, search_key, origin, destination, departure_date, return_date,
			adults, children, infants, travel_class, trip_type,
			offer_count, cached, failed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`,
		rec.ID, rec.Token, rec.SearchKey, rec.Origin, rec.Destination, rec.DepartureDate, rec.ReturnDate,
		rec.Adults, rec.Children, rec.Infants, rec.TravelClass, rec.TripType,
		rec.OfferCount, rec.Cached, rec.Failed, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

// RecentSearches returns the latest searches, newest first
func (r *Repository) RecentSearches(ctx context.Context, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, token, search_key, origin, destination, departure_date, return_date,
		       adults, children, infants, travel_class, trip_type,
		       offer_count, cached, failed, created_at
		FROM searches
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query searches: %w", err)
	}
	defer rows.Close()

	searches := []SearchRecord{}
	for rows.Next() {
		var s SearchRecord
		err := rows.Scan(
			&s.ID, &s.Token, &s.SearchKey, &s.Origin, &s.Destination, &s.DepartureDate, &s.ReturnDate,
			&s.Adults, &s.Children, &s.Infants, &s.TravelClass, &s.TripType,
			&s.OfferCount, &s.Cached, &s.Failed, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search: %w", err)
		}
		searches = append(searches, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read searches: %w", err)
	}

	return searches, nil
}

// --- Pricing ---

// SavePricing inserts or updates the pricing row for a workflow
func (r *Repository) SavePricing(ctx context.Context, rec *PricingRecord) error {
	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO offer_pricings (
			workflow_id, token, offer_id, status, quoted_price, priced_total, currency,
			last_ticketing_date, price_changed, failure_reason, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (workflow_id) DO UPDATE SET
			status = EXCLUDED.status,
			priced_total = EXCLUDED.priced_total,
			currency = EXCLUDED.currency,
			last_ticketing_date = EXCLUDED.last_ticketing_date,
			price_changed = EXCLUDED.price_changed,
			failure_reason = EXCLUDED.failure_reason,
			updated_at = EXCLUDED.updated_at
	`,
		rec.WorkflowID, rec.Token, rec.OfferID, rec.Status, rec.QuotedPrice, rec.PricedTotal, rec.Currency,
		rec.LastTicketingDate, rec.PriceChanged, rec.FailureReason, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save pricing: %w", err)
	}
	return nil
}

// GetPricing returns the pricing row for a workflow
func (r *Repository) GetPricing(ctx context.Context, workflowID string) (*PricingRecord, error) {
	var p PricingRecord
	err := r.db.QueryRow(ctx, `
		SELECT workflow_id, token, offer_id, status, quoted_price, priced_total, currency,
		       last_ticketing_date, price_changed, failure_reason, created_at, updated_at
		FROM offer_pricings
		WHERE workflow_id = $1
	`, workflowID).Scan(
		&p.WorkflowID, &p.Token, &p.OfferID, &p.Status, &p.QuotedPrice, &p.PricedTotal, &p.Currency,
		&p.LastTicketingDate, &p.PriceChanged, &p.FailureReason, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get pricing: %w", err)
	}
	return &p, nil
}
