package exports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/uptrace/bun"

	"dispatchboard/infrastructure/sqlite"
)

func writeLoadsCSV(ctx context.Context, db *sqlite.DB, w io.Writer) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	header := []string{
		"load_number", "reference_number", "customer", "status",
		"pickup_city", "pickup_state", "pickup_date",
		"delivery_city", "delivery_state", "delivery_date",
		"driver", "rate", "commodity", "weight", "created_at",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	type row struct {
		LoadNumber      string `bun:"load_number"`
		ReferenceNumber string `bun:"reference_number"`
		Customer        string `bun:"customer_name"`
		Status          string `bun:"status"`
		PickupCity      string `bun:"pickup_city"`
		PickupState     string `bun:"pickup_state"`
		PickupDate      string `bun:"pickup_date"`
		DeliveryCity    string `bun:"delivery_city"`
		DeliveryState   string `bun:"delivery_state"`
		DeliveryDate    string `bun:"delivery_date"`
		Driver          string `bun:"driver"`
		Rate            string `bun:"rate"`
		Commodity       string `bun:"commodity"`
		Weight          string `bun:"weight"`
		CreatedAt       string `bun:"created_at_fmt"`
	}

	rows := make([]row, 0)
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT l.load_number, COALESCE(l.reference_number, '') AS reference_number,
       l.customer_name, l.status,
       COALESCE(l.pickup_city, '') AS pickup_city,
       COALESCE(l.pickup_state, '') AS pickup_state,
       COALESCE(strftime('%m/%d/%Y', l.pickup_date), '') AS pickup_date,
       COALESCE(l.delivery_city, '') AS delivery_city,
       COALESCE(l.delivery_state, '') AS delivery_state,
       COALESCE(strftime('%m/%d/%Y', l.delivery_date), '') AS delivery_date,
       COALESCE((SELECT d.name FROM driver_assignments da JOIN drivers d ON d.id = da.driver_id
                 WHERE da.load_id = l.id ORDER BY da.is_primary DESC, da.id ASC LIMIT 1), '') AS driver,
       COALESCE(l.rate, '') AS rate,
       COALESCE(l.commodity, '') AS commodity,
       COALESCE(l.weight, '') AS weight,
       COALESCE(strftime('%m/%d/%Y %H:%M', l.created_at), '') AS created_at_fmt
FROM loads l
ORDER BY l.created_at DESC, l.id DESC`).Scan(ctx, &rows)
	})
	if err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.LoadNumber, r.ReferenceNumber, r.Customer, r.Status,
			r.PickupCity, r.PickupState, r.PickupDate,
			r.DeliveryCity, r.DeliveryState, r.DeliveryDate,
			r.Driver, r.Rate, r.Commodity, r.Weight, r.CreatedAt,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}

func countLoads(ctx context.Context, db *sqlite.DB) (int64, error) {
	var n int64
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM loads`).Scan(ctx, &n)
	})
	return n, err
}

func toString(v int64) string {
	return strconv.FormatInt(v, 10)
}
