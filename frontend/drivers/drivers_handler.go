package drivers

import (
	"log/slog"
	"net/http"

	"dispatchboard/infrastructure/sqlite"
)

// RosterPageQueryHandler renders the read-only drivers roster.
func RosterPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := LoadRoster(r.Context(), db)
		if err != nil {
			slog.Error("drivers: failed to load roster", slog.Any("err", err))
			http.Error(w, "failed to load drivers", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := RosterPage(PageData{Drivers: entries}).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render drivers page", http.StatusInternalServerError)
		}
	}
}
