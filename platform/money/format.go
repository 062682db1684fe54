// Package money formats monetary amounts for display.
// This is part of the platform layer and contains no business logic.
package money

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders whole-unit amounts with German digit grouping ("1.234").
// EUR is shown as "€1.234"; every other code as "USD 1.234".
type Formatter struct {
	defaultCurrency string
	printer         *message.Printer
}

// NewFormatter creates a formatter. defaultCurrency is used when an amount
// carries no currency code.
func NewFormatter(defaultCurrency string) *Formatter {
	code := strings.ToUpper(strings.TrimSpace(defaultCurrency))
	if code == "" {
		code = "EUR"
	}
	return &Formatter{
		defaultCurrency: code,
		printer:         message.NewPrinter(language.German),
	}
}

// DefaultCurrency returns the fallback ISO code.
func (f *Formatter) DefaultCurrency() string {
	return f.defaultCurrency
}

// FormatCents rounds cents to the nearest whole unit (half away from zero)
// and renders it with the currency prefix.
func (f *Formatter) FormatCents(cents int64, currency string) string {
	units := int64(math.Round(float64(cents) / 100))
	return f.prefix(currency) + f.printer.Sprintf("%d", units)
}

func (f *Formatter) prefix(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" {
		code = f.defaultCurrency
	}
	if code == "EUR" {
		return "€"
	}
	return code + " "
}
