package migrations

// PricingSchema creates the offer pricing results table
var PricingSchema = &Migration{
	Name: "002_offer_pricings",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS offer_pricings (
			workflow_id TEXT PRIMARY KEY,
			token TEXT NOT NULL,
			offer_id TEXT NOT NULL,
			status TEXT NOT NULL,
			quoted_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			priced_total DOUBLE PRECISION NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT '',
			last_ticketing_date TEXT NOT NULL DEFAULT '',
			price_changed BOOLEAN NOT NULL DEFAULT FALSE,
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_offer_pricings_token ON offer_pricings (token, offer_id);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS offer_pricings;
	`,
}
