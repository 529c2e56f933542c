package exports

import (
	"log/slog"
	"net/http"
	"time"

	"dispatchboard/frontend/loads"
	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/infrastructure/sqlite"
)

// ExportsPageQueryHandler renders the exports screen.
func ExportsPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		total, err := countLoads(r.Context(), db)
		if err != nil {
			http.Error(w, "failed to load export summary", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := ExportsPage(PageData{TotalLoads: total}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render exports page", http.StatusInternalServerError)
		}
	}
}

// LoadsExportCSVHandler streams every load as CSV.
func LoadsExportCSVHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=loads-"+time.Now().Format("2006-01-02")+".csv")
		if err := writeLoadsCSV(r.Context(), db, w); err != nil {
			slog.Error("exports: loads csv failed", slog.Any("err", err))
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
		}
	}
}

// RateConfirmationsZipHandler renders a rate confirmation PDF for each load
// in the selected tab and serves them as one zip archive.
func RateConfirmationsZipHandler(db *sqlite.DB, company docviewer.CompanyInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := loads.TableForTab(r.URL.Query().Get("tab"))
		list, err := loads.ListByTable(r.Context(), db, table)
		if err != nil {
			http.Error(w, "failed to load loads for export", http.StatusInternalServerError)
			return
		}
		if len(list) == 0 {
			http.Error(w, "no loads to export", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition",
			"attachment; filename=rate-confirmations-"+table.Tab+"-"+time.Now().Format("2006-01-02")+".zip")
		if err := writeRateConfirmationsZip(r.Context(), w, list, company); err != nil {
			slog.Error("exports: rate confirmations zip failed", slog.Any("err", err))
		}
	}
}
