// Package pdflib adapts the MuPDF rasterizer (via go-fitz) to the document
// viewer's two-operation library contract. Readiness is probed exactly once
// per process; a failed probe forces every row onto the generated-document
// fallback for the rest of the session.
package pdflib

import (
	"bytes"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/gen2brain/go-fitz"
	"github.com/jung-kurt/gofpdf"

	"dispatchboard/infrastructure/docviewer"
)

// Library lazily verifies the rasterizer runtime.
type Library struct {
	once  sync.Once
	ready bool
}

func NewLibrary() *Library {
	return &Library{}
}

// EnsureReady probes the rasterizer on first call by generating a one-page
// document and opening it. The outcome is permanent for the process.
func (l *Library) EnsureReady() bool {
	l.once.Do(func() {
		if err := probe(); err != nil {
			slog.Warn("pdf rasterizer unavailable, all documents will be generated", slog.Any("err", err))
			return
		}
		l.ready = true
	})
	return l.ready
}

func probe() error {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 14, "probe")
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("build probe document: %w", err)
	}

	doc, err := fitz.NewFromMemory(buf.Bytes())
	if err != nil {
		return fmt.Errorf("open probe document: %w", err)
	}
	defer doc.Close()
	if doc.NumPage() < 1 {
		return fmt.Errorf("probe document has no pages")
	}
	if _, err := doc.ImageDPI(0, 36); err != nil {
		return fmt.Errorf("rasterize probe page: %w", err)
	}
	return nil
}

// Open parses PDF bytes into a render handle.
func (l *Library) Open(data []byte) (docviewer.DocumentHandle, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return &document{doc: doc}, nil
}

type document struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *document) PageCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

// PageSize reports the natural page dimensions in points (72 DPI), derived
// from a cheap low-resolution rasterization.
func (d *document) PageSize(page int) (float64, float64, error) {
	const probeDPI = 36.0
	d.mu.Lock()
	defer d.mu.Unlock()
	img, err := d.doc.ImageDPI(page-1, probeDPI)
	if err != nil {
		return 0, 0, fmt.Errorf("measure page %d: %w", page, err)
	}
	b := img.Bounds()
	return float64(b.Dx()) * 72 / probeDPI, float64(b.Dy()) * 72 / probeDPI, nil
}

// RenderPage rasterizes a 1-based page at the given viewport scale.
func (d *document) RenderPage(page int, scale float64) (image.Image, error) {
	if scale <= 0 {
		scale = 1
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	img, err := d.doc.ImageDPI(page-1, 72*scale)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", page, err)
	}
	return img, nil
}

func (d *document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}
