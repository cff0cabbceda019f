package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Unknown is shown in place of a missing date
const Unknown = "TBD"

// Currency renders amount as US dollars with grouping, e.g. "$2,499.99"
func Currency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	fixed := amount.StringFixed(2)
	whole := amount.Round(2).IntPart()
	p := message.NewPrinter(language.AmericanEnglish)
	return sign + "$" + p.Sprint(number.Decimal(whole)) + fixed[len(fixed)-3:]
}

// Date renders a date like "Jan 15, 2024"
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DateTime renders a timestamp like "Jan 15, 2024, 10:30 AM"
func DateTime(t time.Time) string {
	return t.Format("Jan 2, 2006, 03:04 PM")
}

// OptionalDate renders t, or Unknown when t is nil
func OptionalDate(t *time.Time) string {
	if t == nil {
		return Unknown
	}
	return Date(*t)
}
