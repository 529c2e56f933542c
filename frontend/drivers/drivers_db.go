package drivers

import (
	"context"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/sqlite"
)

// LoadRoster reads all drivers with their assigned-load counts. Active counts
// only include loads a dispatcher can still act on.
func LoadRoster(ctx context.Context, db *sqlite.DB) ([]RosterEntry, error) {
	entries := make([]RosterEntry, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT
  d.id,
  d.name,
  d.phone,
  d.email,
  d.truck_unit,
  COALESCE(SUM(CASE WHEN l.status IN ('new', 'assigned', 'accepted', 'in_progress') THEN 1 ELSE 0 END), 0) AS active_loads,
  COUNT(l.id) AS total_loads
FROM drivers d
LEFT JOIN driver_assignments da ON da.driver_id = d.id
LEFT JOIN loads l ON l.id = da.load_id
GROUP BY d.id, d.name, d.phone, d.email, d.truck_unit
ORDER BY d.name COLLATE NOCASE ASC`).Scan(ctx, &entries)
	})
	return entries, err
}
