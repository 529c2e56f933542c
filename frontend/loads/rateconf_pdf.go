package loads

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/models"
)

// RenderRateConfirmationPDF builds the printable rate confirmation for a
// load. Unlike the on-screen fallback surface, the output is a real PDF with
// a code128 barcode of the document reference, suitable for faxing or
// handing to a driver. Exported for the bulk exports screen.
func RenderRateConfirmationPDF(load models.Load, company docviewer.CompanyInfo) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("Rate Confirmation "+load.DocumentReference(), false)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	margin := 14.0
	contentW := pageW - 2*margin
	pdf.SetMargins(margin, margin, margin)

	companyName := strings.TrimSpace(company.Name)
	if companyName == "" {
		companyName = "Dispatch Office"
	}

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, "RATE CONFIRMATION", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 5.5, companyName, "", 1, "C", false, 0, "")
	if addr := strings.TrimSpace(company.Address); addr != "" {
		pdf.CellFormat(0, 5.5, addr, "", 1, "C", false, 0, "")
	}
	if phone := strings.TrimSpace(company.Phone); phone != "" {
		pdf.CellFormat(0, 5.5, phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)
	pdf.SetLineWidth(0.4)
	pdf.Line(margin, pdf.GetY(), margin+contentW, pdf.GetY())
	pdf.Ln(3)

	section := func(title string) {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	}
	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "N/A"
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(38, 5.5, label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 5.5, value, "", 1, "L", false, 0, "")
	}

	section("LOAD INFORMATION")
	field("Load Number", load.LoadNumber)
	field("Reference", load.ReferenceNumber)
	field("Customer", load.CustomerDisplay())
	field("Rate", docviewer.FormatCurrency(load.Rate))
	field("Commodity", load.Commodity)
	field("Weight", load.Weight)
	field("Equipment", load.EquipmentType)
	pdf.Ln(3)

	section("PICKUP INFORMATION")
	field("Location", cityStateLine(load.PickupCity, load.PickupState, load.PickupZip))
	field("Address", load.PickupAddress)
	field("Date", docviewer.FormatShortDate(load.PickupDate))
	field("Time", load.PickupTime)
	field("Contact", load.PickupContact)
	field("Phone", load.PickupPhone)
	pdf.Ln(3)

	section("DELIVERY INFORMATION")
	field("Location", cityStateLine(load.DeliveryCity, load.DeliveryState, load.DeliveryZip))
	field("Address", load.DeliveryAddress)
	field("Date", docviewer.FormatShortDate(load.DeliveryDate))
	field("Time", load.DeliveryTime)
	field("Contact", load.DeliveryContact)
	field("Phone", load.DeliveryPhone)
	pdf.Ln(4)

	pdf.Line(margin, pdf.GetY(), margin+contentW, pdf.GetY())
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "TOTAL RATE: "+docviewer.FormatCurrency(load.Rate), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 5, "This rate confirmation is valid only when signed by both parties.", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 5, "Generated "+time.Now().Format("01/02/2006 15:04"), "", 1, "L", false, 0, "")

	if ref := load.DocumentReference(); ref != "" {
		barcodePNG, err := renderCode128PNG(ref, 1200, 220)
		if err != nil {
			return nil, err
		}
		opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		imageName := fmt.Sprintf("rateconf-barcode-%d", load.ID)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		imgW := 90.0
		imgH := 18.0
		pdf.ImageOptions(imageName, (pageW-imgW)/2, pdf.GetY()+4, imgW, imgH, false, opt, 0, "")
		pdf.SetY(pdf.GetY() + 4 + imgH)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, ref, "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func cityStateLine(city, state, zip string) string {
	line := stopLocation(city, state)
	if line == "N/A" {
		line = ""
	}
	if z := strings.TrimSpace(zip); z != "" {
		if line != "" {
			line += " "
		}
		line += z
	}
	return line
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	bounds := scaled.Bounds()
	normalized := image.NewNRGBA(bounds)
	draw.Draw(normalized, bounds, scaled, bounds.Min, draw.Src)
	var out bytes.Buffer
	if err := png.Encode(&out, normalized); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
