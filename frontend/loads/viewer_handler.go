package loads

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/infrastructure/sqlite"
)

func writeViewerState(w http.ResponseWriter, viewer *docviewer.Service, id int64) {
	state, ok := viewer.State(id)
	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "viewer not open for this load"})
		return
	}
	_ = json.NewEncoder(w).Encode(state)
}

// ViewerToggleCommandHandler expands or collapses a load's document panel.
func ViewerToggleCommandHandler(db *sqlite.DB, viewer *docviewer.Service) http.HandlerFunc {
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
		expanded := viewer.Toggle(id, load.Status)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]bool{"expanded": expanded})
	}
}

// ViewerMountCommandHandler registers the panel's measured document area.
// The page posts width, height and devicePixelRatio once the panel exists
// in the DOM, which unblocks canvas creation.
func ViewerMountCommandHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		width, _ := strconv.ParseFloat(r.PostFormValue("width"), 64)
		height, _ := strconv.ParseFloat(r.PostFormValue("height"), 64)
		dpr, _ := strconv.ParseFloat(r.PostFormValue("dpr"), 64)
		if width <= 0 || height <= 0 {
			http.Error(w, "container dimensions are required", http.StatusBadRequest)
			return
		}
		viewer.MountContainer(id, docviewer.Container{Width: width, Height: height, DevicePixelRatio: dpr})
		writeViewerState(w, viewer, id)
	}
}

// ViewerStateQueryHandler reports the viewer state as JSON for polling.
func ViewerStateQueryHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeViewerState(w, viewer, id)
	}
}

// ViewerImageQueryHandler streams the rendered document surface as PNG.
func ViewerImageQueryHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		if err := viewer.SurfacePNG(id, w); err != nil {
			if errors.Is(err, docviewer.ErrNoSurface) {
				http.Error(w, "document not rendered yet", http.StatusNotFound)
				return
			}
			http.Error(w, "failed to encode document image", http.StatusInternalServerError)
		}
	}
}

// ViewerZoomCommandHandler adjusts the zoom level and re-renders.
func ViewerZoomCommandHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		scale, err := strconv.ParseFloat(r.PostFormValue("scale"), 64)
		if err != nil {
			http.Error(w, "invalid scale", http.StatusBadRequest)
			return
		}
		viewer.Zoom(r.Context(), id, scale)
		writeViewerState(w, viewer, id)
	}
}

// ViewerPageCommandHandler navigates one page forward or back.
func ViewerPageCommandHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		direction := 1
		if r.PostFormValue("direction") == "prev" {
			direction = -1
		}
		viewer.Navigate(id, direction)
		writeViewerState(w, viewer, id)
	}
}

// ViewerRetryCommandHandler restarts document acquisition from scratch.
func ViewerRetryCommandHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		viewer.Retry(id)
		writeViewerState(w, viewer, id)
	}
}

// ViewerDownloadQueryHandler hands the viewed document to the browser.
// Remote documents are proxied from their source URL so the derived filename
// sticks; generated documents stream the rendered surface as PNG.
func ViewerDownloadQueryHandler(viewer *docviewer.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseLoadID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		artifact, err := viewer.Download(r.Context(), id)
		if err != nil {
			if errors.Is(err, docviewer.ErrNoSurface) {
				http.Error(w, "no document available to download", http.StatusNotFound)
				return
			}
			http.Error(w, "download failed", http.StatusInternalServerError)
			return
		}
		if artifact.RemoteURL != "" {
			req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, artifact.RemoteURL, nil)
			if err != nil {
				http.Error(w, "download failed", http.StatusInternalServerError)
				return
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				http.Error(w, "source document unreachable", http.StatusBadGateway)
				return
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				http.Error(w, "source document unavailable", http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", artifact.ContentType)
			w.Header().Set("Content-Disposition", "attachment; filename="+artifact.Filename)
			_, _ = io.Copy(w, resp.Body)
			return
		}
		w.Header().Set("Content-Type", artifact.ContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+artifact.Filename)
		_, _ = w.Write(artifact.Data)
	}
}
