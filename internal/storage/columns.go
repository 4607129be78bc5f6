package storage

import (
	"fmt"
	"strconv"
	"strings"

	"clubarchive/internal"
)

type column struct {
	name string
	text bool
}

func textCol(name string) column { return column{name: name, text: true} }
func numCol(name string) column  { return column{name: name} }

var clubColumns = func() []column {
	cols := []column{
		numCol("id"),
		textCol("name"),
		textCol("descri"),
		textCol("desc"),
		textCol("slug"),
		numCol("intClubType"),
		textCol("welcTitle"),
		textCol("welcText"),
		textCol("url"),
		textCol("facebook"),
		textCol("twitter"),
		numCol("isActive"),
		numCol("isRecognized"),
		textCol("account_number"),
		textCol("board_short"),
		textCol("adv_short"),
		textCol("members"),
		textCol("dues"),
		textCol("calendar"),
	}
	for i := 1; i <= internal.OfficerSlots; i++ {
		cols = append(cols, textCol(fmt.Sprintf("name%d_short", i)), textCol(fmt.Sprintf("role%d", i)))
	}
	return append(cols,
		textCol("sub_short"),
		textCol("sub_phone"),
		textCol("created"),
		textCol("constit"),
		numCol("budget_closed"),
		numCol("appt_set"),
		numCol("no_budget"),
	)
}()

// clubFields returns pointers to c's fields in clubColumns order.
func clubFields(c *internal.RawClub) []any {
	fields := []any{
		&c.MysqlID,
		&c.Name,
		&c.Descri,
		&c.Desc,
		&c.Slug,
		&c.IntClubType,
		&c.WelcTitle,
		&c.WelcText,
		&c.URL,
		&c.Facebook,
		&c.Twitter,
		&c.IsActive,
		&c.IsRecognized,
		&c.AccountNumber,
		&c.BoardShort,
		&c.AdvShort,
		&c.Members,
		&c.Dues,
		&c.Calendar,
	}
	for i := range c.Officers {
		fields = append(fields, &c.Officers[i].NameShort, &c.Officers[i].Role)
	}
	return append(fields,
		&c.SubShort,
		&c.SubPhone,
		&c.Created,
		&c.Constit,
		&c.BudgetClosed,
		&c.ApptSet,
		&c.NoBudget,
	)
}

var budgetItemColumns = func() []column {
	cols := []column{
		numCol("id"),
		numCol("club_id"),
		textCol("name"),
		textCol("descri"),
		textCol("date"),
		numCol("semester_id"),
		numCol("type_id"),
		textCol("creator"),
		textCol("attendees"),
	}
	for i := 1; i <= internal.BreakdownSlots; i++ {
		cols = append(cols,
			textCol(fmt.Sprintf("exp%d", i)),
			numCol(fmt.Sprintf("cost%d", i)),
			numCol(fmt.Sprintf("req%d", i)),
			numCol(fmt.Sprintf("grant%d", i)),
		)
	}
	return append(cols,
		numCol("total"),
		numCol("request_total"),
		numCol("grant_total"),
		textCol("status"),
		textCol("created"),
		textCol("sa"),
	)
}()

func budgetItemFields(b *internal.RawBudgetItem) []any {
	fields := []any{
		&b.MysqlID,
		&b.ClubID,
		&b.Name,
		&b.Descri,
		&b.Date,
		&b.SemesterID,
		&b.TypeID,
		&b.Creator,
		&b.Attendees,
	}
	for i := range b.Lines {
		fields = append(fields, &b.Lines[i].Exp, &b.Lines[i].Cost, &b.Lines[i].Req, &b.Lines[i].Grant)
	}
	return append(fields,
		&b.Total,
		&b.RequestTotal,
		&b.GrantTotal,
		&b.Status,
		&b.Created,
		&b.SA,
	)
}

var userMappingColumns = []column{
	textCol("name"),
	textCol("email"),
	textCol("fullname"),
	textCol("job"),
}

func userMappingFields(u *internal.RawUserMapping) []any {
	return []any{&u.Name, &u.Email, &u.FullName, &u.Job}
}

func quote(name string) string {
	return `"` + name + `"`
}

// selectList maps NULLs to the zero value so rows scan into plain fields.
func selectList(cols []column) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		if c.text {
			parts[i] = fmt.Sprintf("COALESCE(%s, '')", quote(c.name))
		} else {
			parts[i] = fmt.Sprintf("COALESCE(%s, 0)", quote(c.name))
		}
	}
	return strings.Join(parts, ", ")
}

func upsertSQL(table string, cols []column) string {
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	var updates []string
	for i, c := range cols {
		names[i] = quote(c.name)
		marks[i] = "?"
		if i > 0 {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", quote(c.name), quote(c.name)))
		}
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(%s) DO UPDATE SET %s",
		table, strings.Join(names, ", "), strings.Join(marks, ", "), names[0], strings.Join(updates, ", "))
}

// Table column names, in the order the legacy dumps list them.
func ClubColumnNames() []string        { return columnNames(clubColumns) }
func BudgetItemColumnNames() []string  { return columnNames(budgetItemColumns) }
func UserMappingColumnNames() []string { return columnNames(userMappingColumns) }

func columnNames(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out
}

// ClubFromRecord builds a club from a legacy row keyed by column name.
// Missing columns keep their zero value.
func ClubFromRecord(rec map[string]string) (internal.RawClub, error) {
	var c internal.RawClub
	return c, assignRecord(clubColumns, clubFields(&c), rec)
}

func BudgetItemFromRecord(rec map[string]string) (internal.RawBudgetItem, error) {
	var b internal.RawBudgetItem
	return b, assignRecord(budgetItemColumns, budgetItemFields(&b), rec)
}

func UserMappingFromRecord(rec map[string]string) (internal.RawUserMapping, error) {
	var u internal.RawUserMapping
	return u, assignRecord(userMappingColumns, userMappingFields(&u), rec)
}

func assignRecord(cols []column, fields []any, rec map[string]string) error {
	for i, c := range cols {
		raw, ok := rec[c.name]
		if !ok {
			continue
		}
		switch dst := fields[i].(type) {
		case *string:
			*dst = raw
		case *int:
			if strings.TrimSpace(raw) == "" {
				continue
			}
			v, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
				if ferr != nil {
					return fmt.Errorf("column %s: %w", c.name, err)
				}
				v = int(f)
			}
			*dst = v
		case *float64:
			if strings.TrimSpace(raw) == "" {
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("column %s: %w", c.name, err)
			}
			*dst = v
		}
	}
	return nil
}
