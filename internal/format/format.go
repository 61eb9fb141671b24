// Package format renders numbers, money and dates for display in a
// given locale. It is used only at the response edge: calculator results
// stay numeric and unrounded until they pass through here.
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.English, // default
	language.Arabic,
}

var matcher = language.NewMatcher(supported)

// Printer returns a message printer for the best match of the requested
// locale, falling back to English.
func Printer(locale string) *message.Printer {
	tag, _ := language.MatchStrings(matcher, locale)
	return message.NewPrinter(tag)
}

// Number formats a decimal with locale-aware digits and separators,
// rounded to the given number of places.
func Number(locale string, d decimal.Decimal, places int32) string {
	f, _ := d.Round(places).Float64()
	return Printer(locale).Sprintf("%.*f", int(places), f)
}

// Money formats a monetary amount with two decimal places and its
// currency code.
func Money(locale string, d decimal.Decimal, currencyCode string) string {
	return Number(locale, d, 2) + " " + currencyCode
}

// Percent formats a 0-100 percentage value.
func Percent(locale string, d decimal.Decimal) string {
	return Number(locale, d, 2) + "%"
}

// Date formats a calendar date in the locale's customary layout.
// Digits stay Latin in both locales, matching regional convention for
// dates.
func Date(locale string, t time.Time) string {
	tag, _ := language.MatchStrings(matcher, locale)
	if base, _ := tag.Base(); base.String() == "ar" {
		return t.Format("02/01/2006")
	}
	return t.Format("2 Jan 2006")
}
