package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/sqlite"
)

// Seeds a handful of demo loads and drivers so the board has something to
// show on a fresh database.
func main() {
	migrationsDir, err := resolveMigrationsDir()
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	defaultDBPath := filepath.Join(filepath.Dir(filepath.Dir(filepath.Dir(migrationsDir))), "dispatchboard.db")
	dbPath := getenv("SQLITE_PATH", defaultDBPath)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	err = db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO drivers (name, phone, email, truck_unit, created_at, updated_at)
SELECT 'Marco Diaz', '555-0100', 'marco@example.com', 'T-12', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
WHERE NOT EXISTS (SELECT 1 FROM drivers WHERE name = 'Marco Diaz')`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO drivers (name, phone, email, truck_unit, created_at, updated_at)
SELECT 'Priya Natarajan', '555-0101', 'priya@example.com', 'T-7', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
WHERE NOT EXISTS (SELECT 1 FROM drivers WHERE name = 'Priya Natarajan')`); err != nil {
			return err
		}

		seeds := []struct {
			number, ref, customer, status, rate string
			pickupCity, pickupState             string
			deliveryCity, deliveryState         string
			commodity, weight                   string
		}{
			{"L-1001", "REF-1001", "Acme Freight", "new", "1791.666", "Dallas", "TX", "Tulsa", "OK", "Packaged goods", "24,000 lbs"},
			{"L-1002", "", "Northline Produce", "assigned", "950", "Fresno", "CA", "Reno", "NV", "Produce", "18,500 lbs"},
			{"L-1003", "REF-1003", "Gulf Coast Metals", "in_progress", "2890.25", "Houston", "TX", "Birmingham", "AL", "Steel coils", "42,000 lbs"},
			{"L-0900", "REF-0900", "Acme Freight", "completed", "2100.5", "Austin", "TX", "Memphis", "TN", "Packaged goods", "30,000 lbs"},
		}
		for _, s := range seeds {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO loads (load_number, reference_number, customer_name, status, rate, pickup_city, pickup_state, pickup_date, delivery_city, delivery_state, delivery_date, commodity, weight, created_at, updated_at)
SELECT ?, ?, ?, ?, ?, ?, ?, DATE('now', '+1 day'), ?, ?, DATE('now', '+3 days'), ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP
WHERE NOT EXISTS (SELECT 1 FROM loads WHERE load_number = ?)`,
				s.number, s.ref, s.customer, s.status, s.rate,
				s.pickupCity, s.pickupState, s.deliveryCity, s.deliveryState,
				s.commodity, s.weight, s.number); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, `
INSERT INTO driver_assignments (load_id, driver_id, is_primary, created_at)
SELECT l.id, d.id, 1, CURRENT_TIMESTAMP
FROM loads l, drivers d
WHERE l.load_number = 'L-1002' AND d.name = 'Marco Diaz'
  AND NOT EXISTS (SELECT 1 FROM driver_assignments da WHERE da.load_id = l.id AND da.driver_id = d.id)`)
		return err
	})
	if err != nil {
		log.Fatalf("seed loads: %v", err)
	}

	fmt.Println("seeded demo drivers and loads")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolveMigrationsDir() (string, error) {
	candidates := []string{
		filepath.Join("infrastructure", "sqlite", "migrations"),
		filepath.Join("..", "..", "infrastructure", "sqlite", "migrations"),
	}

	if _, file, _, ok := runtime.Caller(0); ok {
		candidates = append(candidates, filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations"))
	}

	tried := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		tried = append(tried, absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return absPath, nil
		}
	}

	return "", fmt.Errorf("migrations dir not found; tried: %s", strings.Join(tried, ", "))
}
