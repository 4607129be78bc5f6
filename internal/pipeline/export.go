package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"clubarchive/internal/util"
)

const (
	clubsSheet       = "Clubs"
	budgetItemsSheet = "Budget Items"
)

var clubHeaders = []string{
	"mysqlId", "name", "type", "active", "recognized", "labels",
	"officers", "items", "requested", "granted",
}

var budgetItemHeaders = []string{
	"club", "item_id", "semester", "type", "boe", "creator",
	"created", "total", "requested", "granted", "special_allocation",
}

// ExportWorkbook writes one row per club and one row per budget item.
// Amounts are written as numbers; created timestamps use formatter.
func ExportWorkbook(clubs []Club, formatter *util.Formatter, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), clubsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(budgetItemsSheet); err != nil {
		return err
	}

	writeHeader(f, clubsSheet, clubHeaders)
	writeHeader(f, budgetItemsSheet, budgetItemHeaders)

	itemRow := 2
	for i, club := range clubs {
		totals := club.Totals()
		labels := make([]string, 0, len(club.Labels))
		for _, l := range club.Labels {
			labels = append(labels, l.Name)
		}

		setRow(f, clubsSheet, i+2,
			club.MysqlID,
			club.Name,
			club.ClubType.Name,
			club.Status.IsActive,
			club.Status.IsRecognized,
			strings.Join(labels, ", "),
			len(club.Officers),
			len(club.BudgetItems),
			totals.TotalRequested.InexactFloat64(),
			totals.TotalGranted.InexactFloat64(),
		)

		for _, item := range club.BudgetItems {
			semester, requestType := "", ""
			if item.Semester != nil {
				semester = item.Semester.Name
			}
			if item.Type != nil {
				requestType = item.Type.Name
			}
			setRow(f, budgetItemsSheet, itemRow,
				club.Name,
				item.MysqlID,
				semester,
				requestType,
				item.IsBOE,
				string(item.Creator),
				formatter.Time(item.CreatedAt),
				item.Aggregation.TotalBreakdown.InexactFloat64(),
				item.Aggregation.TotalRequested.InexactFloat64(),
				item.Aggregation.TotalGranted.InexactFloat64(),
				item.SpecialAllocation(),
			)
			itemRow++
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func writeHeader(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
