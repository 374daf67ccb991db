package main

import (
	"context"
	"flag"
	"log"

	"github.com/hello2026ai/skytrips-admin-sub003/internal/config"
	"github.com/hello2026ai/skytrips-admin-sub003/internal/database/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg := config.Load()

	dbURL := flag.String("db", cfg.DatabaseURL, "Postgres connection URL")
	rollback := flag.Bool("rollback", false, "revert the most recent migration")
	flag.Parse()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	migrator := migrations.New(pool)

	if *rollback {
		if _, err := migrator.Rollback(ctx, migrations.All); err != nil {
			log.Fatalf("Rollback failed: %v", err)
		}
		return
	}

	applied, err := migrator.Migrate(ctx, migrations.All)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if len(applied) == 0 {
		log.Println("Database is up to date")
		return
	}
	log.Printf("Applied %d migration(s)", len(applied))
}
