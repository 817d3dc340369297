// Package format holds the pure display helpers shared by the dashboard and
// the CLI. Both helpers are total: bad input is passed through unchanged and
// missing input renders as "-".
package format

import (
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const apiDateLayout = "2006-01-02"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency renders a decimal string as a US-locale currency amount.
// Currency("1234.5") == "$1,234.50". Non-numeric input is returned as-is;
// empty input renders as "-".
func Currency(value string) string {
	if value == "" {
		return "-"
	}
	amount, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	return printer.Sprintf("$%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Date renders an API calendar date (YYYY-MM-DD) as a US-locale short date.
// Unparsable input is returned as-is; empty input renders as "-".
func Date(value string) string {
	if value == "" {
		return "-"
	}
	parsed, err := time.Parse(apiDateLayout, value)
	if err != nil {
		// The server occasionally hands back full timestamps.
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return value
		}
	}
	return parsed.Format("1/2/2006")
}
