package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatterTime(t *testing.T) {
	f, err := NewFormatter("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "rfc3339 winter", input: "2023-02-15T21:23:45Z", want: "Feb 15, 2023 (4:23 PM)"},
		{name: "mysql datetime summer", input: "2010-09-01 04:00:00", want: "Sep 1, 2010 (12:00 AM)"},
		{name: "garbage passes through", input: "not a date", want: "not a date"},
		{name: "empty", input: "", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.Time(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestFormatterDateShort(t *testing.T) {
	f, err := NewFormatter("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"2023-12-29T17:00:00Z": "December 29th, 2023",
		"2021-03-01T17:00:00Z": "March 1st, 2021",
		"2019-04-22T17:00:00Z": "April 22nd, 2019",
		"2019-04-13T17:00:00Z": "April 13th, 2019",
		// Just after midnight UTC is still the previous day in New York.
		"2020-01-01T02:00:00Z": "December 31st, 2019",
	}
	for input, want := range cases {
		if got := f.DateShort(input); got != want {
			t.Errorf("DateShort(%q) = %q, want %q", input, got, want)
		}
	}
	if y := f.Year("2021-01-01T02:00:00Z"); y != 2020 {
		t.Fatalf("year=%d", y)
	}
}

func TestNewFormatterUnknownZone(t *testing.T) {
	if _, err := NewFormatter("Mars/Olympus_Mons"); err == nil {
		t.Fatal("expected error")
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		amount decimal.Decimal
		want   string
	}{
		{decimal.NewFromFloat(1234.5), "$1,234.50"},
		{decimal.Zero, "$0.00"},
		{decimal.NewFromInt(-12), "-$12.00"},
		{decimal.NewFromInt(1000000), "$1,000,000.00"},
		{decimal.RequireFromString("19.99"), "$19.99"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.amount); got != tc.want {
			t.Errorf("FormatCurrency(%s) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
