package canvas

import (
	"bytes"
	"image/color"
	"testing"
)

func TestNewSurfaceAccountsForScaleAndPixelRatio(t *testing.T) {
	t.Parallel()

	s := NewSurface(612, 792, 1.5, 2)
	b := s.Bounds()
	if b.Dx() != 1836 || b.Dy() != 2376 {
		t.Fatalf("expected 1836x2376 backing image, got %dx%d", b.Dx(), b.Dy())
	}
	if s.Scale() != 1.5 {
		t.Fatalf("expected scale 1.5, got %v", s.Scale())
	}
}

func TestResizeDefaultsInvalidFactors(t *testing.T) {
	t.Parallel()

	s := NewSurface(100, 100, 0, -1)
	b := s.Bounds()
	if b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("expected factors to default to 1, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFillRectPaintsPixels(t *testing.T) {
	t.Parallel()

	s := NewSurface(10, 10, 1, 1)
	s.Clear(color.White)
	s.FillRect(2, 2, 4, 4, color.Black)

	r, g, b, _ := s.img.At(3, 3).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Fatalf("expected black pixel inside rect, got %d,%d,%d", r, g, b)
	}
	r, _, _, _ = s.img.At(8, 8).RGBA()
	if r == 0 {
		t.Fatalf("expected untouched pixel outside rect")
	}
}

func TestTextDrawsAndMeasures(t *testing.T) {
	t.Parallel()

	s := NewSurface(200, 50, 1, 1)
	s.Clear(color.White)
	if err := s.Text(5, 30, 14, true, color.Black, "RATE CONFIRMATION"); err != nil {
		t.Fatalf("draw text: %v", err)
	}
	w, err := s.TextWidth(14, true, "RATE CONFIRMATION")
	if err != nil {
		t.Fatalf("measure text: %v", err)
	}
	if w <= 0 {
		t.Fatalf("expected positive text width, got %v", w)
	}
}

func TestEncodePNGProducesData(t *testing.T) {
	t.Parallel()

	s := NewSurface(20, 20, 1, 1)
	s.Clear(color.White)
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty png bytes")
	}
}
