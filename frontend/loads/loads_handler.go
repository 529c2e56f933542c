package loads

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dispatchboard/infrastructure/audit"
	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/infrastructure/sqlite"
)

// defaultActor labels mutations until per-user auth is wired by the host
// deployment.
const defaultActor = "dispatcher"

func parseLoadID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid load id")
	}
	return id, nil
}

// BoardPageQueryHandler renders the loads table for the requested tab.
func BoardPageQueryHandler(db *sqlite.DB, viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := TableForTab(r.URL.Query().Get("tab"))
		list, err := ListByTable(r.Context(), db, table)
		if err != nil {
			http.Error(w, "failed to load dispatch board", http.StatusInternalServerError)
			return
		}

		expanded := make(map[int64]bool, len(list))
		for _, l := range list {
			expanded[l.ID] = viewer.Expanded(l.ID)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page := BoardPage(PageData{
			Table:    table,
			Loads:    list,
			Expanded: expanded,
			Status:   r.URL.Query().Get("status"),
		})
		if err := page.Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render loads page", http.StatusInternalServerError)
		}
	}
}

// UpdateStatusCommandHandler moves a load to a new status.
func UpdateStatusCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		status := r.PostFormValue("status")
		if err := UpdateStatus(r.Context(), db, auditSvc, defaultActor, id, status); err != nil {
			http.Redirect(w, r, "/dispatch/loads?status="+url.QueryEscape("Status update failed"), http.StatusSeeOther)
			return
		}
		http.Redirect(w, r, "/dispatch/loads?tab="+url.QueryEscape(r.PostFormValue("tab")), http.StatusSeeOther)
	}
}

// CreateCommentCommandHandler records a dispatcher comment on a load.
func CreateCommentCommandHandler(db *sqlite.DB, auditSvc *audit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := AddComment(r.Context(), db, auditSvc, defaultActor, id, r.PostFormValue("body")); err != nil {
			http.Error(w, "failed to add comment", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// CommentsQueryHandler lists comments for a load as an HTML fragment.
func CommentsQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		comments, err := ListComments(r.Context(), db, id)
		if err != nil {
			http.Error(w, "failed to load comments", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := CommentsFragment(comments).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render comments", http.StatusInternalServerError)
		}
	}
}

// RateConfirmationPDFQueryHandler serves the printable generated rate
// confirmation, regardless of whether a remote document exists.
func RateConfirmationPDFQueryHandler(db *sqlite.DB, company docviewer.CompanyInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		load, err := LoadByID(r.Context(), db, id)
		if err != nil {
			http.Error(w, "load not found", http.StatusNotFound)
			return
		}
		pdfBytes, err := RenderRateConfirmationPDF(load, company)
		if err != nil {
			http.Error(w, "failed to build rate confirmation pdf", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("inline; filename=%s", docviewer.DownloadFilename(load.DocumentReference(), "pdf")))
		_, _ = w.Write(pdfBytes)
	}
}
