package docviewer

import (
	"testing"
	"time"
)

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	str := func(s string) *string { return &s }
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"repeating fraction", 1791.6666666666667, "$1,791.67"},
		{"nil", nil, "$0.00"},
		{"non-numeric string", "not-a-number", "$0.00"},
		{"numeric string", "2500", "$2,500.00"},
		{"numeric string with spaces", " 1200.5 ", "$1,200.50"},
		{"nil string pointer", (*string)(nil), "$0.00"},
		{"string pointer", str("950.25"), "$950.25"},
		{"int", 7, "$7.00"},
		{"small", 0.004, "$0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatCurrency(tc.in); got != tc.want {
				t.Fatalf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatShortDate(t *testing.T) {
	t.Parallel()

	if got := FormatShortDate(nil); got != "N/A" {
		t.Fatalf("nil date: got %q, want N/A", got)
	}
	var zero time.Time
	if got := FormatShortDate(&zero); got != "N/A" {
		t.Fatalf("zero date: got %q, want N/A", got)
	}
	d := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	if got := FormatShortDate(&d); got != "3/9/2026" {
		t.Fatalf("got %q, want 3/9/2026", got)
	}
}

func TestOrNA(t *testing.T) {
	t.Parallel()

	if got := orNA("  "); got != "N/A" {
		t.Fatalf("blank: got %q", got)
	}
	if got := orNA("Steel Coils"); got != "Steel Coils" {
		t.Fatalf("value: got %q", got)
	}
}
