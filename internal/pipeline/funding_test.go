package pipeline

import (
	"bytes"
	"errors"
	"testing"

	"clubarchive/internal"
)

func TestFundingBySemester(t *testing.T) {
	club := NormalizeClub(internal.RawClub{MysqlID: 5}, []internal.RawBudgetItem{
		{MysqlID: 1, SemesterID: 21, TypeID: 1, RequestTotal: 100, GrantTotal: 60},
		{MysqlID: 2, SemesterID: 2, TypeID: 5, Total: 30, RequestTotal: 30},
		{MysqlID: 3, SemesterID: 18, TypeID: 1, RequestTotal: 10, GrantTotal: 5},
		{MysqlID: 4, SemesterID: 21, TypeID: 2, RequestTotal: 50, GrantTotal: 25.5},
	})

	funding := FundingBySemester(club)
	if len(funding) != 3 {
		t.Fatalf("got %d buckets", len(funding))
	}

	want := []struct {
		label     string
		items     int
		requested float64
		granted   float64
	}{
		{"Fall 2008", 1, 30, 30},
		{"Fall 2016", 2, 150, 85.5},
		{"Unknown", 1, 10, 5},
	}
	for i, w := range want {
		got := funding[i]
		if got.Label() != w.label || got.Items != w.items {
			t.Fatalf("bucket %d = %s/%d, want %s/%d", i, got.Label(), got.Items, w.label, w.items)
		}
		if !got.Requested.Equal(dec(w.requested)) || !got.Granted.Equal(dec(w.granted)) {
			t.Fatalf("bucket %d totals = %s/%s", i, got.Requested, got.Granted)
		}
	}
}

func TestRenderFundingChart(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		club := NormalizeClub(internal.RawClub{MysqlID: 5}, []internal.RawBudgetItem{
			{MysqlID: 1, SemesterID: 20, TypeID: 1, GrantTotal: 60},
			{MysqlID: 2, SemesterID: 21, TypeID: 1, GrantTotal: 0},
		})
		png, err := RenderFundingChart("Chess Club", FundingBySemester(club))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(png, []byte("\x89PNG")) {
			t.Fatal("output is not a PNG")
		}
	})

	t.Run("no funding", func(t *testing.T) {
		if _, err := RenderFundingChart("Empty", nil); !errors.Is(err, ErrNoFunding) {
			t.Fatalf("err = %v", err)
		}
		zero := []SemesterFunding{{Semester: LookupSemester(1), Items: 1, Requested: dec(10), Granted: dec(0)}}
		if _, err := RenderFundingChart("Zero", zero); !errors.Is(err, ErrNoFunding) {
			t.Fatalf("err = %v", err)
		}
	})
}
