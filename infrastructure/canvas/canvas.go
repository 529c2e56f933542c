// Package canvas provides the raster drawing surface backing the per-load
// document viewer: a fixed logical page scaled by zoom and device pixel
// ratio, with text, line and rectangle primitives plus PNG serialization.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	regularFont *opentype.Font
	boldFont    *opentype.Font
	fontsErr    error

	faceMu    sync.Mutex
	faceCache = make(map[faceKey]font.Face)
)

type faceKey struct {
	size float64
	bold bool
}

func loadFonts() {
	regularFont, fontsErr = opentype.Parse(goregular.TTF)
	if fontsErr != nil {
		return
	}
	boldFont, fontsErr = opentype.Parse(gobold.TTF)
}

func face(size float64, bold bool) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fmt.Errorf("parse embedded fonts: %w", fontsErr)
	}
	key := faceKey{size: size, bold: bold}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[key]; ok {
		return f, nil
	}
	src := regularFont
	if bold {
		src = boldFont
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("build %gpt face: %w", size, err)
	}
	faceCache[key] = f
	return f, nil
}

// Surface is a drawing surface with a logical coordinate space in points.
// The backing image is logical size x scale x device pixel ratio so output
// stays crisp on high-density displays.
type Surface struct {
	img           *image.RGBA
	logicalWidth  float64
	logicalHeight float64
	scale         float64
	dpr           float64
}

// NewSurface creates a surface for the given logical page size.
func NewSurface(logicalWidth, logicalHeight, scale, devicePixelRatio float64) *Surface {
	s := &Surface{}
	s.Resize(logicalWidth, logicalHeight, scale, devicePixelRatio)
	return s
}

// Resize replaces the backing image for new logical size or scale factors.
// Previous content is discarded.
func (s *Surface) Resize(logicalWidth, logicalHeight, scale, devicePixelRatio float64) {
	if scale <= 0 {
		scale = 1
	}
	if devicePixelRatio <= 0 {
		devicePixelRatio = 1
	}
	s.logicalWidth = logicalWidth
	s.logicalHeight = logicalHeight
	s.scale = scale
	s.dpr = devicePixelRatio
	w := int(logicalWidth*scale*devicePixelRatio + 0.5)
	h := int(logicalHeight*scale*devicePixelRatio + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Scale returns the current zoom scale.
func (s *Surface) Scale() float64 { return s.scale }

// Bounds returns the backing pixel bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// LogicalSize returns the unscaled page size in points.
func (s *Surface) LogicalSize() (w, h float64) { return s.logicalWidth, s.logicalHeight }

func (s *Surface) px(v float64) int {
	return int(v*s.scale*s.dpr + 0.5)
}

// Clear fills the whole surface with c.
func (s *Surface) Clear(c color.Color) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect fills the logical rectangle with c.
func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	r := image.Rect(s.px(x), s.px(y), s.px(x+w), s.px(y+h))
	draw.Draw(s.img, r.Intersect(s.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// StrokeRect outlines the logical rectangle with lines of the given logical
// thickness.
func (s *Surface) StrokeRect(x, y, w, h, thickness float64, c color.Color) {
	s.FillRect(x, y, w, thickness, c)
	s.FillRect(x, y+h-thickness, w, thickness, c)
	s.FillRect(x, y, thickness, h, c)
	s.FillRect(x+w-thickness, y, thickness, h, c)
}

// Line draws a straight segment between two logical points.
func (s *Surface) Line(x1, y1, x2, y2, thickness float64, c color.Color) {
	if y1 == y2 {
		if x2 < x1 {
			x1, x2 = x2, x1
		}
		s.FillRect(x1, y1, x2-x1, thickness, c)
		return
	}
	if x1 == x2 {
		if y2 < y1 {
			y1, y2 = y2, y1
		}
		s.FillRect(x1, y1, thickness, y2-y1, c)
		return
	}
	// Bresenham for the rare non-axis-aligned segment.
	px1, py1, px2, py2 := s.px(x1), s.px(y1), s.px(x2), s.px(y2)
	dx := abs(px2 - px1)
	dy := -abs(py2 - py1)
	sx, sy := 1, 1
	if px1 > px2 {
		sx = -1
	}
	if py1 > py2 {
		sy = -1
	}
	e := dx + dy
	for {
		s.img.Set(px1, py1, c)
		if px1 == px2 && py1 == py2 {
			return
		}
		if e2 := 2 * e; e2 >= dy {
			e += dy
			px1 += sx
		} else {
			e += dx
			py1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Text draws text with its baseline at the logical point (x, y). The size is
// in logical points; it is scaled with the surface.
func (s *Surface) Text(x, y, size float64, bold bool, c color.Color, text string) error {
	f, err := face(size*s.scale*s.dpr, bold)
	if err != nil {
		return err
	}
	d := font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(c),
		Face: f,
		Dot:  fixed.P(s.px(x), s.px(y)),
	}
	d.DrawString(text)
	return nil
}

// TextWidth measures text at the given logical size, returned in logical
// points.
func (s *Surface) TextWidth(size float64, bold bool, text string) (float64, error) {
	f, err := face(size*s.scale*s.dpr, bold)
	if err != nil {
		return 0, err
	}
	w := font.MeasureString(f, text)
	return float64(w) / 64 / (s.scale * s.dpr), nil
}

// DrawImage paints src scaled to cover the whole surface, preserving nothing
// of the previous content. Used to paint rasterized PDF pages.
func (s *Surface) DrawImage(src image.Image) {
	draw.CatmullRom.Scale(s.img, s.img.Bounds(), src, src.Bounds(), draw.Src, nil)
}

// EncodePNG serializes the surface backing image.
func (s *Surface) EncodePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}
