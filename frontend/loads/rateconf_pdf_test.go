package loads

import (
	"bytes"
	"testing"

	"dispatchboard/infrastructure/docviewer"
	"dispatchboard/models"
)

func TestRenderRateConfirmationPDF_GeneratesPDF(t *testing.T) {
	t.Parallel()

	rate := "1791.666"
	load := models.Load{
		ID:              7,
		LoadNumber:      "L-1001",
		ReferenceNumber: "REF-1001",
		CustomerName:    "Acme Freight",
		CustomerContact: "Dana",
		PickupCity:      "Dallas",
		PickupState:     "TX",
		DeliveryCity:    "Tulsa",
		DeliveryState:   "OK",
		Rate:            &rate,
	}
	company := docviewer.CompanyInfo{
		Name:    "Lakeshore Logistics",
		Address: "410 Dock Rd, Gary, IN",
		Phone:   "(219) 555-0188",
	}

	pdf, err := RenderRateConfirmationPDF(load, company)
	if err != nil {
		t.Fatalf("renderRateConfirmationPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected pdf header, got %q", pdf[:8])
	}
}

func TestRenderRateConfirmationPDF_ToleratesSparseLoad(t *testing.T) {
	t.Parallel()

	pdf, err := RenderRateConfirmationPDF(models.Load{ID: 8, LoadNumber: "L-2000", CustomerName: "Northline"}, docviewer.CompanyInfo{})
	if err != nil {
		t.Fatalf("renderRateConfirmationPDF returned error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("expected non-empty pdf bytes")
	}
}

func TestCityStateLine(t *testing.T) {
	t.Parallel()

	cases := []struct {
		city, state, zip string
		want             string
	}{
		{"Dallas", "TX", "75201", "Dallas, TX 75201"},
		{"Dallas", "TX", "", "Dallas, TX"},
		{"", "", "75201", "75201"},
		{"", "", "", ""},
	}
	for _, tc := range cases {
		if got := cityStateLine(tc.city, tc.state, tc.zip); got != tc.want {
			t.Errorf("cityStateLine(%q, %q, %q) = %q, want %q", tc.city, tc.state, tc.zip, got, tc.want)
		}
	}
}
