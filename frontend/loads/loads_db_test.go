package loads

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/audit"
	"dispatchboard/infrastructure/sqlite"
)

func openLoadsTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "loads-test.db")
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

func seedBoard(t *testing.T, db *sqlite.DB) {
	t.Helper()
	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO drivers (id, name, phone, created_at, updated_at)
VALUES
(1, 'Marco Diaz', '555-0100', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP),
(2, 'Priya Natarajan', '555-0101', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO loads (id, load_number, reference_number, customer_name, customer_contact, pickup_city, pickup_state, delivery_city, delivery_state, status, rate, created_at, updated_at)
VALUES
(1, 'L-1001', 'REF-1001', 'Acme Freight', 'Dana', 'Dallas', 'TX', 'Tulsa', 'OK', 'new', '1791.666', DATETIME('now', '-3 hours'), CURRENT_TIMESTAMP),
(2, 'L-1002', '', 'Northline Produce', '', 'Fresno', 'CA', 'Reno', 'NV', 'in_progress', '950', DATETIME('now', '-2 hours'), CURRENT_TIMESTAMP),
(3, 'L-0900', 'REF-0900', 'Acme Freight', '', 'Austin', 'TX', 'Memphis', 'TN', 'completed', '2100.5', DATETIME('now', '-5 days'), CURRENT_TIMESTAMP)`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO driver_assignments (load_id, driver_id, is_primary, created_at)
VALUES
(2, 1, 0, CURRENT_TIMESTAMP),
(2, 2, 1, CURRENT_TIMESTAMP)`)
		return err
	})
	if err != nil {
		t.Fatalf("seed board: %v", err)
	}
}

func TestListByTable_SplitsActiveAndArchive(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)

	active, err := ListByTable(context.Background(), db, ActiveTable)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active loads, got %d", len(active))
	}
	if active[0].LoadNumber != "L-1002" {
		t.Fatalf("expected newest load first, got %q", active[0].LoadNumber)
	}

	archive, err := ListByTable(context.Background(), db, ArchiveTable)
	if err != nil {
		t.Fatalf("list archive: %v", err)
	}
	if len(archive) != 1 || archive[0].LoadNumber != "L-0900" {
		t.Fatalf("expected only L-0900 in archive, got %+v", archive)
	}
}

func TestLoadByID_ReadsAssignmentsWithDrivers(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)

	load, err := LoadByID(context.Background(), db, 2)
	if err != nil {
		t.Fatalf("load by id: %v", err)
	}
	if len(load.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(load.Assignments))
	}
	if got := PrimaryDriverName(load); got != "Priya Natarajan" {
		t.Fatalf("expected primary driver Priya Natarajan, got %q", got)
	}
}

func TestPrimaryDriverName_FallsBackToFirstAssignment(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)

	err := db.WithWriteTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `UPDATE driver_assignments SET is_primary = 0`)
		return err
	})
	if err != nil {
		t.Fatalf("clear primary flags: %v", err)
	}

	load, err := LoadByID(context.Background(), db, 2)
	if err != nil {
		t.Fatalf("load by id: %v", err)
	}
	if got := PrimaryDriverName(load); got != "Marco Diaz" {
		t.Fatalf("expected first assignment driver Marco Diaz, got %q", got)
	}
}

func TestUpdateStatus_WritesAuditTrail(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)
	auditSvc := audit.NewService()

	if err := UpdateStatus(context.Background(), db, auditSvc, "dispatcher", 1, "assigned"); err != nil {
		t.Fatalf("update status: %v", err)
	}

	load, err := LoadByID(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("load by id: %v", err)
	}
	if load.Status != "assigned" {
		t.Fatalf("expected status assigned, got %q", load.Status)
	}

	var entry struct {
		Actor      string `bun:"actor"`
		Action     string `bun:"action"`
		BeforeJSON string `bun:"before_json"`
		AfterJSON  string `bun:"after_json"`
	}
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT actor, action, before_json, after_json FROM audit_logs WHERE entity_type = 'loads' AND entity_id = '1'`).
			Scan(ctx, &entry)
	})
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	if entry.Action != "load.status_update" || entry.Actor != "dispatcher" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
	if entry.BeforeJSON != `{"Status":"new"}` || entry.AfterJSON != `{"Status":"assigned"}` {
		t.Fatalf("unexpected audit snapshots: before=%q after=%q", entry.BeforeJSON, entry.AfterJSON)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)

	if err := UpdateStatus(context.Background(), db, audit.NewService(), "dispatcher", 1, "teleported"); err == nil {
		t.Fatalf("expected invalid status to be rejected")
	}

	load, err := LoadByID(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("load by id: %v", err)
	}
	if load.Status != "new" {
		t.Fatalf("status should be unchanged, got %q", load.Status)
	}
}

func TestAddComment_AndListNewestFirst(t *testing.T) {
	db := openLoadsTestDB(t)
	seedBoard(t, db)
	auditSvc := audit.NewService()

	if err := AddComment(context.Background(), db, auditSvc, "dispatcher", 1, "  called shipper, dock opens at 7am  "); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if err := AddComment(context.Background(), db, auditSvc, "dispatcher", 1, "driver confirmed pickup"); err != nil {
		t.Fatalf("add second comment: %v", err)
	}
	if err := AddComment(context.Background(), db, auditSvc, "dispatcher", 1, "   "); err == nil {
		t.Fatalf("expected blank comment to be rejected")
	}

	comments, err := ListComments(context.Background(), db, 1)
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Body != "driver confirmed pickup" {
		t.Fatalf("expected newest comment first, got %q", comments[0].Body)
	}
	if comments[1].Body != "called shipper, dock opens at 7am" {
		t.Fatalf("expected trimmed body, got %q", comments[1].Body)
	}
}
