// Package docviewer owns the per-row rate-confirmation document viewer for
// the dispatch board: row expansion, canvas surfaces, remote PDF rendering
// with graceful degradation to a generated substitute document, and the
// zoom/page/download/retry controls.
package docviewer

import (
	"context"
	"errors"
	"image"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"dispatchboard/infrastructure/canvas"
	"dispatchboard/models"
)

// LoadSource supplies load records; the board's sqlite store satisfies it.
type LoadSource interface {
	LoadByID(ctx context.Context, id int64) (models.Load, error)
}

// DocumentLibrary is the two-operation contract the viewer needs from a PDF
// library: become ready once per process, and open bytes into a handle.
type DocumentLibrary interface {
	EnsureReady() bool
	Open(data []byte) (DocumentHandle, error)
}

// DocumentHandle is an opened remote document.
type DocumentHandle interface {
	PageCount() int
	PageSize(page int) (w, h float64, err error)
	RenderPage(page int, scale float64) (image.Image, error)
	Close() error
}

// Container is the registered viewport for an expanded row, reported by the
// presentation layer once the row panel has mounted.
type Container struct {
	Width            float64
	Height           float64
	DevicePixelRatio float64
}

// row aggregates everything the viewer tracks per load identity. Rows are
// created on first expansion and kept for the life of the process; re-init
// resets state but never discards the record or its surface.
type row struct {
	state     ViewerState
	container *Container
	surface   *canvas.Surface
	doc       DocumentHandle
	remoteURL string
	gen       uint64
}

// Service is the document viewer. All keyed maps of the viewer live behind
// one mutex; every async continuation carries a generation token and
// discards its result when the row has since been re-initialized.
type Service struct {
	mu       sync.Mutex
	rows     map[int64]*row
	expanded map[int64]struct{}

	loads   LoadSource
	library DocumentLibrary
	client  *http.Client
	company CompanyInfo

	openTimeout time.Duration
	retryDelay  time.Duration
	maxAttempts int

	now      func() time.Time
	schedule func(d time.Duration, fn func())
}

// NewService wires a viewer over the given load source and document library.
func NewService(loads LoadSource, library DocumentLibrary, company CompanyInfo) *Service {
	return &Service{
		rows:        make(map[int64]*row),
		expanded:    make(map[int64]struct{}),
		loads:       loads,
		library:     library,
		client:      &http.Client{},
		company:     company,
		openTimeout: 15 * time.Second,
		retryDelay:  500 * time.Millisecond,
		maxAttempts: MaxCreationAttempts,
		now:         time.Now,
		schedule:    func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// Toggle expands or collapses the row for a load. A collapsed row expands
// only while the load status is active; an already-expanded row may always
// be collapsed, so a load that reached a terminal status with its panel open
// can still be closed. Returns whether the row is expanded afterwards.
func (s *Service) Toggle(id int64, status string) bool {
	s.mu.Lock()
	if _, open := s.expanded[id]; open {
		delete(s.expanded, id)
		s.mu.Unlock()
		return false
	}
	if !models.IsActiveStatus(status) {
		s.mu.Unlock()
		return false
	}
	s.expanded[id] = struct{}{}
	r := s.rowLocked(id)
	r.state.CreationAttempts = 0
	r.gen++
	gen := r.gen
	s.mu.Unlock()

	s.schedule(0, func() { s.initialize(id, gen) })
	return true
}

// Expanded reports whether the row for a load is currently expanded.
func (s *Service) Expanded(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, open := s.expanded[id]
	return open
}

// MountContainer registers the viewport for a row once its panel exists in
// the page, and kicks initialization immediately. Bumping the generation
// here invalidates any timer-based retry still pending for the old attempt.
func (s *Service) MountContainer(id int64, c Container) {
	s.mu.Lock()
	r := s.rowLocked(id)
	cc := c
	r.container = &cc
	r.gen++
	gen := r.gen
	s.mu.Unlock()

	s.schedule(0, func() { s.initialize(id, gen) })
}

// Retry re-runs the full initialization sequence without requiring the row
// to be collapsed and re-expanded. Viewer state resets to defaults; the
// surface and container registration survive.
func (s *Service) Retry(id int64) {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	if r.doc != nil {
		_ = r.doc.Close()
		r.doc = nil
	}
	r.remoteURL = ""
	r.state = newViewerState()
	r.gen++
	gen := r.gen
	s.mu.Unlock()

	s.schedule(0, func() { s.initialize(id, gen) })
}

// State returns a copy of the viewer state for a load.
func (s *Service) State(id int64) (ViewerState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return ViewerState{}, false
	}
	return r.state, true
}

// EnsureCanvas returns the drawing surface for a load, creating it on first
// use. Idempotent: repeated calls return the same surface, which is reused
// across re-renders and collapse/re-expand cycles.
func (s *Service) EnsureCanvas(id int64) (*canvas.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rowLocked(id)
	if err := s.ensureSurfaceLocked(r); err != nil {
		return nil, err
	}
	return r.surface, nil
}

// SurfacePNG serializes the current surface for a load.
func (s *Service) SurfacePNG(id int64, w io.Writer) error {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok || r.surface == nil {
		s.mu.Unlock()
		return ErrNoSurface
	}
	surface := r.surface
	s.mu.Unlock()
	return surface.EncodePNG(w)
}

// Zoom clamps and stores a new scale, then re-renders the current page
// through whichever path produced it.
func (s *Service) Zoom(ctx context.Context, id int64, newScale float64) {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	r.state.Scale = ClampScale(newScale)
	gen := r.gen
	page := r.state.CurrentPage
	hasDoc := r.doc != nil
	s.mu.Unlock()

	if hasDoc {
		s.renderPDFPage(id, gen, page)
		return
	}
	s.refallback(ctx, id, gen)
}

// Navigate moves one page forward or back, silently no-oping at the bounds.
// direction is +1 or -1.
func (s *Service) Navigate(id int64, direction int) {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	next := r.state.CurrentPage + direction
	if next < 1 || next > r.state.TotalPages || r.doc == nil {
		s.mu.Unlock()
		return
	}
	gen := r.gen
	s.mu.Unlock()

	s.renderPDFPage(id, gen, next)
}

func (s *Service) rowLocked(id int64) *row {
	r, ok := s.rows[id]
	if !ok {
		r = &row{state: newViewerState()}
		s.rows[id] = r
	}
	return r
}

func (s *Service) ensureSurfaceLocked(r *row) error {
	if r.container == nil {
		return ErrNoContainer
	}
	if r.surface != nil {
		return nil
	}
	dpr := r.container.DevicePixelRatio
	r.surface = canvas.NewSurface(pageWidth, pageHeight, r.state.Scale, dpr)
	return nil
}

// initialize runs the per-row sequence: ensure container and surface, try
// the real PDF, fall back to the generated document. It is re-entered by
// timer retries and mount signals; the generation token fences stale runs.
func (s *Service) initialize(id int64, gen uint64) {
	s.mu.Lock()
	r, ok := s.rows[id]
	if !ok || r.gen != gen {
		s.mu.Unlock()
		return
	}
	if err := s.ensureSurfaceLocked(r); err != nil {
		r.state.CreationAttempts++
		attempts := r.state.CreationAttempts
		if attempts < s.maxAttempts {
			s.mu.Unlock()
			s.schedule(s.retryDelay, func() { s.initialize(id, gen) })
			return
		}
		// Attempt cap reached: settle into a visible terminal state
		// instead of an endless spinner.
		r.state.Loaded = true
		r.state.ErrorMessage = "document area never became ready"
		s.mu.Unlock()
		slog.Warn("viewer gave up waiting for container", slog.Int64("load_id", id), slog.Int("attempts", attempts))
		return
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.openTimeout)
	defer cancel()
	load, err := s.loads.LoadByID(ctx, id)
	if err != nil {
		s.mu.Lock()
		if r, ok := s.rows[id]; ok && r.gen == gen {
			r.state.Loaded = true
			r.state.ErrorMessage = "load record unavailable: " + err.Error()
		}
		s.mu.Unlock()
		slog.Error("viewer could not read load", slog.Int64("load_id", id), slog.Any("err", err))
		return
	}

	if url := strings.TrimSpace(load.RateConfirmationPDFURL); url != "" {
		err := s.loadRemotePDF(id, gen, url)
		if err == nil || errors.Is(err, errStale) {
			return
		}
		// Timeout, parse failures and a missing library all degrade to
		// the generated document; the user never sees them as errors.
		slog.Warn("rate confirmation pdf unavailable, generating document",
			slog.Int64("load_id", id), slog.Any("cause", err))
	}

	s.renderFallback(id, gen, load)
}

// refallback redraws the generated document, e.g. after a zoom change.
func (s *Service) refallback(ctx context.Context, id int64, gen uint64) {
	load, err := s.loads.LoadByID(ctx, id)
	if err != nil {
		slog.Error("viewer could not re-read load", slog.Int64("load_id", id), slog.Any("err", err))
		return
	}
	s.renderFallback(id, gen, load)
}

// renderFallback draws the standardized substitute document onto the row's
// surface. Draw failures still mark the row loaded so it shows an error
// state rather than spin.
func (s *Service) renderFallback(id int64, gen uint64, load models.Load) {
	ops := buildRateConfirmation(load, s.company, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok || r.gen != gen {
		return
	}
	if r.surface == nil {
		r.state.Loaded = true
		r.state.ErrorMessage = ErrNoSurface.Error()
		return
	}
	dpr := 1.0
	if r.container != nil && r.container.DevicePixelRatio > 0 {
		dpr = r.container.DevicePixelRatio
	}
	r.surface.Resize(pageWidth, pageHeight, r.state.Scale, dpr)
	r.surface.Clear(white)
	if err := paint(r.surface, ops); err != nil {
		r.state.Loaded = true
		r.state.ErrorMessage = err.Error()
		return
	}
	r.state.Loaded = true
	r.state.ErrorMessage = ""
	r.state.CurrentPage = 1
	r.state.TotalPages = 1
}
