package pipeline

import (
	"bytes"
	"errors"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoFunding = errors.New("no funding history")

const unknownSemesterColor = "#6b7280"

// SemesterFunding totals one club's requests for a semester. Semester is nil
// for the bucket of items whose semester id is not in the table.
type SemesterFunding struct {
	Semester  *Semester       `json:"semester"`
	Items     int             `json:"items"`
	Requested decimal.Decimal `json:"requested"`
	Granted   decimal.Decimal `json:"granted"`
}

func (f SemesterFunding) Label() string {
	if f.Semester == nil {
		return "Unknown"
	}
	return f.Semester.Name
}

// FundingBySemester groups the club's items in semester id order with the
// unknown bucket last. Granted amounts include the BOE override.
func FundingBySemester(club Club) []SemesterFunding {
	byID := map[int]*SemesterFunding{}
	var unknown *SemesterFunding

	for _, item := range club.BudgetItems {
		var bucket *SemesterFunding
		if item.Semester == nil {
			if unknown == nil {
				unknown = &SemesterFunding{Requested: decimal.Zero, Granted: decimal.Zero}
			}
			bucket = unknown
		} else {
			bucket = byID[item.Semester.ID]
			if bucket == nil {
				bucket = &SemesterFunding{Semester: item.Semester, Requested: decimal.Zero, Granted: decimal.Zero}
				byID[item.Semester.ID] = bucket
			}
		}
		bucket.Items++
		bucket.Requested = bucket.Requested.Add(item.Aggregation.TotalRequested)
		bucket.Granted = bucket.Granted.Add(item.Aggregation.TotalGranted)
	}

	out := make([]SemesterFunding, 0, len(byID)+1)
	for _, f := range byID {
		out = append(out, *f)
	}
	slices.SortFunc(out, func(a, b SemesterFunding) int {
		return a.Semester.ID - b.Semester.ID
	})
	if unknown != nil {
		out = append(out, *unknown)
	}
	return out
}

// RenderFundingChart draws granted amounts per semester as a PNG bar chart,
// each bar in its semester's badge colour.
func RenderFundingChart(title string, funding []SemesterFunding) ([]byte, error) {
	maxGranted := 0.0
	bars := make([]chart.Value, 0, len(funding))
	for _, f := range funding {
		granted := f.Granted.InexactFloat64()
		if granted > maxGranted {
			maxGranted = granted
		}
		color := unknownSemesterColor
		if f.Semester != nil {
			color = f.Semester.Color
		}
		bars = append(bars, chart.Value{
			Label: f.Label(),
			Value: granted,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(color[1:]),
				StrokeColor: drawing.ColorFromHex(color[1:]),
				StrokeWidth: 1,
			},
		})
	}
	if maxGranted <= 0 {
		return nil, ErrNoFunding
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    max(400, 80*len(bars)+120),
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxGranted},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
