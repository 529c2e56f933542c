package http

import (
	"github.com/go-chi/chi/v5"

	driverspage "dispatchboard/frontend/drivers"
	exportspage "dispatchboard/frontend/exports"
	loadspage "dispatchboard/frontend/loads"
)

// RegisterDispatchRoutes registers the dispatch board screens and the
// per-row document viewer API.
func (s *Server) RegisterDispatchRoutes(r chi.Router) chi.Router {
	r.Get("/loads", loadspage.BoardPageQueryHandler(s.DB, s.Viewer))
	r.Post("/loads/{id}/status", loadspage.UpdateStatusCommandHandler(s.DB, s.Audit))
	r.Get("/loads/{id}/comments", loadspage.CommentsQueryHandler(s.DB))
	r.Post("/loads/{id}/comments", loadspage.CreateCommentCommandHandler(s.DB, s.Audit))
	r.Get("/loads/{id}/rate-confirmation.pdf", loadspage.RateConfirmationPDFQueryHandler(s.DB, s.Company))

	r.Post("/loads/{id}/viewer/toggle", loadspage.ViewerToggleCommandHandler(s.DB, s.Viewer))
	r.Post("/loads/{id}/viewer/mount", loadspage.ViewerMountCommandHandler(s.Viewer))
	r.Get("/loads/{id}/viewer/state", loadspage.ViewerStateQueryHandler(s.Viewer))
	r.Get("/loads/{id}/viewer/image", loadspage.ViewerImageQueryHandler(s.Viewer))
	r.Post("/loads/{id}/viewer/zoom", loadspage.ViewerZoomCommandHandler(s.Viewer))
	r.Post("/loads/{id}/viewer/page", loadspage.ViewerPageCommandHandler(s.Viewer))
	r.Post("/loads/{id}/viewer/retry", loadspage.ViewerRetryCommandHandler(s.Viewer))
	r.Get("/loads/{id}/viewer/download", loadspage.ViewerDownloadQueryHandler(s.Viewer))

	r.Get("/drivers", driverspage.RosterPageQueryHandler(s.DB))

	r.Get("/exports", exportspage.ExportsPageQueryHandler(s.DB))
	r.Get("/exports/loads.csv", exportspage.LoadsExportCSVHandler(s.DB))
	r.Get("/exports/rate-confirmations.zip", exportspage.RateConfirmationsZipHandler(s.DB, s.Company))
	return r
}
