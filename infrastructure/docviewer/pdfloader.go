package docviewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// maxPDFBytes bounds how much of a remote rate confirmation is read.
const maxPDFBytes = 32 << 20

func relaxedConfig() *model.Configuration {
	cfg := model.NewDefaultConfiguration()
	cfg.ValidationMode = model.ValidationRelaxed
	return cfg
}

// loadRemotePDF fetches and opens the real rate-confirmation document for a
// load, records its page count and renders page 1. The fetch races a 15 s
// deadline; the row's generation token keeps a late response from touching
// state a newer attempt already owns.
func (s *Service) loadRemotePDF(id int64, gen uint64, url string) error {
	if !s.library.EnsureReady() {
		return ErrLibraryUnavailable
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.openTimeout)
	defer cancel()

	data, err := s.fetch(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrTimeout, url)
		}
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	// Validate before rasterizing so malformed downloads fail fast.
	pages, err := api.PageCount(bytes.NewReader(data), relaxedConfig())
	if err != nil || pages < 1 {
		return fmt.Errorf("%w: page count: %v", ErrParse, err)
	}

	handle, err := s.library.Open(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}

	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok || r.gen != gen {
		s.mu.Unlock()
		_ = handle.Close()
		return errStale
	}
	if r.doc != nil {
		_ = r.doc.Close()
	}
	r.doc = handle
	r.remoteURL = url
	r.state.TotalPages = handle.PageCount()
	if r.state.TotalPages < 1 {
		r.state.TotalPages = 1
	}
	s.mu.Unlock()

	s.renderPDFPage(id, gen, 1)
	return nil
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return data, nil
}

// renderPDFPage paints one page of the opened document at the smaller of the
// fit-to-container scale and the user's zoom, sized for the device pixel
// ratio. Failures are recorded in the row state rather than returned: they
// are terminal for the page but never crash the row.
func (s *Service) renderPDFPage(id int64, gen uint64, page int) {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok || r.gen != gen || r.doc == nil || r.surface == nil {
		s.mu.Unlock()
		return
	}
	doc := r.doc
	zoom := r.state.Scale
	dpr := 1.0
	var containerWidth float64
	if r.container != nil {
		containerWidth = r.container.Width
		if r.container.DevicePixelRatio > 0 {
			dpr = r.container.DevicePixelRatio
		}
	}
	s.mu.Unlock()

	w, h, err := doc.PageSize(page)
	if err != nil {
		s.recordPageError(id, gen, page, err)
		return
	}
	fit := zoom
	if containerWidth > 0 && w > 0 {
		if f := containerWidth / w; f < fit {
			fit = f
		}
	}
	img, err := doc.RenderPage(page, fit*dpr)
	if err != nil {
		s.recordPageError(id, gen, page, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok = s.rows[id]
	if !ok || r.gen != gen || r.surface == nil {
		return
	}
	r.surface.Resize(w, h, fit, dpr)
	r.surface.Clear(white)
	r.surface.DrawImage(img)
	r.state.Loaded = true
	r.state.CurrentPage = page
	r.state.ErrorMessage = ""
}

func (s *Service) recordPageError(id int64, gen uint64, page int, cause error) {
	slog.Error("pdf page render failed", slog.Int64("load_id", id), slog.Int("page", page), slog.Any("err", cause))
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.gen != gen {
		return
	}
	r.state.Loaded = false
	r.state.ErrorMessage = fmt.Sprintf("failed to render page %d: %v", page, cause)
}
