package templates

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
)

// Format controls how money and dates are displayed.
type Format struct {
	CurrencySymbol string
	DateLayout     string
}

// DefaultFormat is used until Configure is called.
var DefaultFormat = Format{CurrencySymbol: "R$", DateLayout: "02/01/2006"}

var format atomic.Pointer[Format]

func init() {
	f := DefaultFormat
	format.Store(&f)
}

// Configure replaces the display format. Empty fields keep their defaults.
func Configure(f Format) {
	if f.CurrencySymbol == "" {
		f.CurrencySymbol = DefaultFormat.CurrencySymbol
	}
	if f.DateLayout == "" {
		f.DateLayout = DefaultFormat.DateLayout
	}
	format.Store(&f)
}

// CurrentFormat returns the active display format.
func CurrentFormat() Format {
	return *format.Load()
}

// Money formats d with the currency symbol, two decimals, a decimal comma
// and dot thousands separators: "R$ 1.234,50".
func Money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(CurrentFormat().CurrencySymbol)
	b.WriteByte(' ')
	for i := range len(whole) {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(whole[i])
	}
	b.WriteByte(',')
	b.WriteString(frac)
	return b.String()
}

// Date formats t with the configured layout.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CurrentFormat().DateLayout)
}

// InputDate formats t for an <input type="date"> value.
func InputDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// DateTime formats t with the configured date layout and the time of day.
func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CurrentFormat().DateLayout + " 15:04:05")
}
