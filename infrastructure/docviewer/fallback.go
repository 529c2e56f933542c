package docviewer

import (
	"fmt"
	"image/color"
	"time"

	"dispatchboard/infrastructure/canvas"
	"dispatchboard/models"
)

// Logical page size: US Letter at 72 DPI.
const (
	pageWidth  = 612.0
	pageHeight = 792.0
	pageMargin = 40.0
)

// CompanyInfo is the carrier letterhead printed on generated documents.
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
}

var white = color.White

type opKind int

const (
	opText opKind = iota
	opLine
	opRect
)

// drawOp is one primitive of the generated rate-confirmation layout. The
// layout is built as a flat op list so it can be painted onto the canvas
// surface or inspected directly.
type drawOp struct {
	kind     opKind
	x, y     float64
	x2, y2   float64
	size     float64
	bold     bool
	centered bool
	text     string
}

func text(x, y, size float64, bold bool, s string) drawOp {
	return drawOp{kind: opText, x: x, y: y, size: size, bold: bold, text: s}
}

func centered(y, size float64, bold bool, s string) drawOp {
	return drawOp{kind: opText, y: y, size: size, bold: bold, centered: true, text: s}
}

func hrule(y float64) drawOp {
	return drawOp{kind: opLine, x: pageMargin, y: y, x2: pageWidth - pageMargin, y2: y}
}

// buildRateConfirmation lays out the standardized substitute document for a
// load: header, load/pickup/delivery sections, footer with restated total,
// and a border frame. Every optional field defaults to a placeholder so the
// document is always complete.
func buildRateConfirmation(load models.Load, company CompanyInfo, now time.Time) []drawOp {
	ops := make([]drawOp, 0, 64)

	y := pageMargin + 20
	ops = append(ops, centered(y, 20, true, "RATE CONFIRMATION"))
	y += 22
	ops = append(ops, centered(y, 11, false, orNA(company.Name)))
	y += 14
	ops = append(ops, centered(y, 9, false, orNA(company.Address)))
	y += 12
	ops = append(ops, centered(y, 9, false, orNA(company.Phone)))
	y += 14
	ops = append(ops, hrule(y))
	y += 24

	label := func(s string) {
		ops = append(ops, text(pageMargin, y, 12, true, s))
		y += 18
	}
	field := func(name, value string) {
		ops = append(ops, text(pageMargin+10, y, 10, false, name+": "+value))
		y += 14
	}

	label("LOAD INFORMATION")
	field("Load Number", orNA(load.LoadNumber))
	field("Reference", orNA(load.ReferenceNumber))
	field("Customer", orNA(load.CustomerDisplay()))
	field("Rate", FormatCurrency(load.Rate))
	field("Commodity", orNA(load.Commodity))
	field("Weight", orNA(load.Weight))
	y += 12

	label("PICKUP INFORMATION")
	field("Location", cityState(load.PickupCity, load.PickupState))
	field("Address", orNA(load.PickupAddress))
	field("Date", FormatShortDate(load.PickupDate))
	field("Time", orNA(load.PickupTime))
	field("Contact", orNA(load.PickupContact))
	field("Phone", orNA(load.PickupPhone))
	y += 12

	label("DELIVERY INFORMATION")
	field("Location", cityState(load.DeliveryCity, load.DeliveryState))
	field("Address", orNA(load.DeliveryAddress))
	field("Date", FormatShortDate(load.DeliveryDate))
	field("Time", orNA(load.DeliveryTime))
	field("Contact", orNA(load.DeliveryContact))
	field("Phone", orNA(load.DeliveryPhone))
	y += 12

	footerY := pageHeight - pageMargin - 64
	if y > footerY {
		footerY = y
	}
	ops = append(ops, hrule(footerY))
	footerY += 22
	ops = append(ops, text(pageMargin, footerY, 14, true, "TOTAL RATE: "+FormatCurrency(load.Rate)))
	footerY += 18
	ops = append(ops, text(pageMargin, footerY, 8, false,
		"This rate confirmation is valid only for the shipment described above."))
	footerY += 12
	ops = append(ops, text(pageMargin, footerY, 8, false,
		"Generated "+now.Format("1/2/2006 3:04 PM")))

	ops = append(ops, drawOp{
		kind: opRect,
		x:    pageMargin / 2, y: pageMargin / 2,
		x2: pageWidth - pageMargin/2, y2: pageHeight - pageMargin/2,
	})
	return ops
}

func cityState(city, state string) string {
	switch {
	case city == "" && state == "":
		return "N/A"
	case state == "":
		return city
	case city == "":
		return state
	default:
		return city + ", " + state
	}
}

// paint draws an op list onto the surface. The surface must already be sized
// for the page; a failing primitive aborts with ErrDraw.
func paint(s *canvas.Surface, ops []drawOp) error {
	black := color.Black
	for _, op := range ops {
		switch op.kind {
		case opText:
			x := op.x
			if op.centered {
				w, err := s.TextWidth(op.size, op.bold, op.text)
				if err != nil {
					return fmt.Errorf("%w: %v", ErrDraw, err)
				}
				x = (pageWidth - w) / 2
			}
			if err := s.Text(x, op.y, op.size, op.bold, black, op.text); err != nil {
				return fmt.Errorf("%w: %v", ErrDraw, err)
			}
		case opLine:
			s.Line(op.x, op.y, op.x2, op.y2, 0.8, black)
		case opRect:
			s.StrokeRect(op.x, op.y, op.x2-op.x, op.y2-op.y, 1.2, black)
		}
	}
	return nil
}

// opTexts returns the text content of a layout, in draw order.
func opTexts(ops []drawOp) []string {
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		if op.kind == opText {
			out = append(out, op.text)
		}
	}
	return out
}
