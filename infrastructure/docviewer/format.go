package docviewer

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders a monetary amount as US-locale dollars with two
// decimals. Upstream systems deliver rates as numbers or numeric strings;
// nil and non-numeric input formats as "$0.00".
func FormatCurrency(v any) string {
	amount, ok := currencyAmount(v)
	if !ok {
		amount = 0
	}
	return usPrinter.Sprintf("$%.2f", amount)
}

func currencyAmount(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case *string:
		if t == nil {
			return 0, false
		}
		return currencyAmount(*t)
	default:
		return 0, false
	}
}

// FormatShortDate renders a date in US short form, "N/A" when absent.
func FormatShortDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("1/2/2006")
}

// orNA substitutes the placeholder for blank document fields.
func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "N/A"
	}
	return v
}
