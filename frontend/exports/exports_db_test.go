package exports

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/infrastructure/sqlite"
	"dispatchboard/models"
)

func openExportsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "exports-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestWriteLoadsCSV_IncludesHeaderAndPrimaryDriver(t *testing.T) {
	db := openExportsTestDB(t)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO drivers (id, name, created_at, updated_at)
VALUES (1, 'Marco Diaz', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP),
       (2, 'Priya Natarajan', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO loads (id, load_number, reference_number, customer_name, status, rate, pickup_city, pickup_state, created_at, updated_at)
VALUES (1, 'L-1001', 'REF-1001', 'Acme Freight', 'new', '1791.666', 'Dallas', 'TX', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO driver_assignments (load_id, driver_id, is_primary, created_at)
VALUES (1, 1, 0, CURRENT_TIMESTAMP), (1, 2, 1, CURRENT_TIMESTAMP)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed loads: %v", err)
	}

	var buf bytes.Buffer
	if err := writeLoadsCSV(context.Background(), db, &buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header plus 1 row, got %d records", len(records))
	}
	if records[0][0] != "load_number" {
		t.Fatalf("expected header row, got %v", records[0])
	}
	row := records[1]
	if row[0] != "L-1001" || row[2] != "Acme Freight" {
		t.Fatalf("unexpected csv row: %v", row)
	}
	if row[10] != "Priya Natarajan" {
		t.Fatalf("expected primary driver in csv, got %q", row[10])
	}
}

func TestWriteRateConfirmationsZip_OneEntryPerLoad(t *testing.T) {
	t.Parallel()

	rate := "950"
	list := []models.Load{
		{ID: 1, LoadNumber: "L-1001", ReferenceNumber: "REF-1001", CustomerName: "Acme Freight", Rate: &rate},
		{ID: 2, LoadNumber: "L-1002", CustomerName: "Northline Produce"},
		// Duplicate reference gets a disambiguated filename.
		{ID: 3, LoadNumber: "L-1003", ReferenceNumber: "REF-1001", CustomerName: "Acme Freight"},
	}

	var buf bytes.Buffer
	err := writeRateConfirmationsZip(context.Background(), &buf, list, docviewer.CompanyInfo{Name: "Lakeshore Logistics"})
	if err != nil {
		t.Fatalf("write zip: %v", err)
	}

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(reader.File) != 3 {
		t.Fatalf("expected 3 archive entries, got %d", len(reader.File))
	}

	names := make(map[string]bool, len(reader.File))
	for _, f := range reader.File {
		if names[f.Name] {
			t.Fatalf("duplicate archive entry %q", f.Name)
		}
		names[f.Name] = true
		if !strings.HasSuffix(f.Name, ".pdf") {
			t.Fatalf("expected pdf entry, got %q", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %q: %v", f.Name, err)
		}
		head := make([]byte, 4)
		if _, err := io.ReadFull(rc, head); err != nil {
			t.Fatalf("read entry %q: %v", f.Name, err)
		}
		_ = rc.Close()
		if string(head) != "%PDF" {
			t.Fatalf("entry %q is not a pdf", f.Name)
		}
	}
	if !names["rate-confirmation-L-1002.pdf"] {
		t.Fatalf("expected load-number fallback filename, got %v", names)
	}
}
