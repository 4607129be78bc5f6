package util

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Timestamps from the legacy database carry no zone; they are UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Formatter renders legacy timestamps in the archive's display zone.
type Formatter struct {
	loc *time.Location
}

func NewFormatter(timezone string) (*Formatter, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &Formatter{loc: loc}, nil
}

// Time formats like "Feb 15, 2023 (4:23 PM)". Unparseable input is returned
// as is.
func (f *Formatter) Time(value string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	t = t.In(f.loc)
	return fmt.Sprintf("%s, %d (%s)", t.Format("Jan 2"), t.Year(), t.Format("3:04 PM"))
}

// DateShort formats like "December 29th, 2023".
func (f *Formatter) DateShort(value string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return value
	}
	t = t.In(f.loc)
	return fmt.Sprintf("%s %s, %d", t.Format("January"), humanize.Ordinal(t.Day()), t.Year())
}

// Year reports the display-zone year of a timestamp, 0 when unparseable.
func (f *Formatter) Year(value string) int {
	t, ok := ParseTimestamp(value)
	if !ok {
		return 0
	}
	return t.In(f.loc).Year()
}

// FormatCurrency formats an amount in US dollars, e.g. "$1,234.50" or "-$12.00".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", amount.Round(2).InexactFloat64())
}
