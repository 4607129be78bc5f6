package pipeline

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"clubarchive/internal"
	"clubarchive/internal/storage"
)

// Sheet names of a legacy table dump; each sheet's first row holds the
// column names.
const (
	clubTableSheet        = "club"
	budgetItemsTableSheet = "budgetitems"
	userMappingTableSheet = "usermapping"
)

var ErrNoClubSheet = errors.New("workbook has no club sheet")

type ImportResult struct {
	Clubs        int
	BudgetItems  int
	UserMappings int
}

// ImportWorkbook loads a legacy table dump into the snapshot. The club sheet
// is required; budgetitems and usermapping are optional.
func ImportWorkbook(db *storage.DB, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, err
	}
	defer f.Close()

	sheets := map[string]string{}
	for _, name := range f.GetSheetList() {
		sheets[strings.ToLower(strings.TrimSpace(name))] = name
	}

	var res ImportResult

	clubSheet, ok := sheets[clubTableSheet]
	if !ok {
		return res, ErrNoClubSheet
	}
	clubs, err := readSheet(f, clubSheet, storage.ClubFromRecord)
	if err != nil {
		return res, err
	}
	if err := db.UpsertClubs(clubs); err != nil {
		return res, err
	}
	res.Clubs = len(clubs)

	if sheet, ok := sheets[budgetItemsTableSheet]; ok {
		items, err := readSheet(f, sheet, storage.BudgetItemFromRecord)
		if err != nil {
			return res, err
		}
		if err := db.UpsertBudgetItems(items); err != nil {
			return res, err
		}
		res.BudgetItems = len(items)
	}

	if sheet, ok := sheets[userMappingTableSheet]; ok {
		users, err := readSheet(f, sheet, storage.UserMappingFromRecord)
		if err != nil {
			return res, err
		}
		users = dropUnnamed(users)
		if err := db.UpsertUserMappings(users); err != nil {
			return res, err
		}
		res.UserMappings = len(users)
	}

	return res, nil
}

func readSheet[T any](f *excelize.File, sheet string, convert func(map[string]string) (T, error)) ([]T, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}

	out := make([]T, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" || col >= len(row) {
				continue
			}
			rec[name] = row[col]
		}
		v, err := convert(rec)
		if err != nil {
			return nil, fmt.Errorf("sheet %s row %d: %w", sheet, i+2, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func dropUnnamed(users []internal.RawUserMapping) []internal.RawUserMapping {
	out := users[:0]
	for _, u := range users {
		if strings.TrimSpace(u.Name) != "" {
			out = append(out, u)
		}
	}
	return out
}
