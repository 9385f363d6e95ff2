// Command export dumps the full scored-event history as CSV.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/export                # to stdout
//	DATABASE_URL=postgres://... go run ./cmd/export -o history.csv # to a file
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/mbd888/payguard/internal/events"
)

func main() {
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := events.NewPostgresStore(db)
	all, err := store.ListAll(ctx)
	if err != nil {
		log.Fatalf("Failed to load events: %v", err)
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", *out, err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	if err := events.WriteCSV(w, all); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}

	if *out != "" {
		log.Printf("Exported %d event(s) to %s", len(all), *out)
	}
}
