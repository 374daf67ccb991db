package migrations

// InitialSchema creates the search audit table
var InitialSchema = &Migration{
	Name: "001_searches",
	UpSQL: `
		CREATE TABLE IF NOT EXISTS searches (
			id UUID PRIMARY KEY,
			token TEXT NOT NULL,
			search_key TEXT NOT NULL,
			origin TEXT NOT NULL,
			destination TEXT NOT NULL,
			departure_date TEXT NOT NULL,
			return_date TEXT NOT NULL DEFAULT '',
			adults INTEGER NOT NULL DEFAULT 1,
			children INTEGER NOT NULL DEFAULT 0,
			infants INTEGER NOT NULL DEFAULT 0,
			travel_class TEXT NOT NULL DEFAULT 'ECONOMY',
			trip_type TEXT NOT NULL DEFAULT '',
			offer_count INTEGER NOT NULL DEFAULT 0,
			cached BOOLEAN NOT NULL DEFAULT FALSE,
			failed BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches (created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_searches_token ON searches (token);
	`,
	DownSQL: `
		DROP TABLE IF EXISTS searches;
	`,
}
