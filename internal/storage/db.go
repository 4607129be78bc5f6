package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"clubarchive/internal"
)

var ErrNotFound = errors.New("not found")

// DB is a local SQLite snapshot of the legacy budget site database. The
// club, budgetitems and usermapping tables keep the legacy column names;
// node_id is the snapshot's own row id and id is the legacy (public) id.
type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS club (
  node_id INTEGER PRIMARY KEY AUTOINCREMENT,
  id INTEGER NOT NULL UNIQUE,
  name TEXT,
  descri TEXT,
  "desc" TEXT,
  slug TEXT,
  intClubType INTEGER,
  welcTitle TEXT,
  welcText TEXT,
  url TEXT,
  facebook TEXT,
  twitter TEXT,
  isActive INTEGER,
  isRecognized INTEGER,
  account_number TEXT,
  board_short TEXT,
  adv_short TEXT,
  members TEXT,
  dues TEXT,
  calendar TEXT,
` + officerColumnsDDL() + `
  sub_short TEXT,
  sub_phone TEXT,
  created TEXT,
  constit TEXT,
  budget_closed INTEGER,
  appt_set INTEGER,
  no_budget INTEGER
);

CREATE TABLE IF NOT EXISTS budgetitems (
  node_id INTEGER PRIMARY KEY AUTOINCREMENT,
  id INTEGER NOT NULL UNIQUE,
  club_id INTEGER NOT NULL,
  name TEXT,
  descri TEXT,
  date TEXT,
  semester_id INTEGER,
  type_id INTEGER,
  creator TEXT,
  attendees TEXT,
` + breakdownColumnsDDL() + `
  total REAL,
  request_total REAL,
  grant_total REAL,
  status TEXT,
  created TEXT,
  sa TEXT
);
CREATE INDEX IF NOT EXISTS idx_budgetitems_club ON budgetitems(club_id);

CREATE TABLE IF NOT EXISTS usermapping (
  name TEXT PRIMARY KEY,
  email TEXT,
  fullname TEXT,
  job TEXT
);

CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  startedAt TEXT NOT NULL,
  finishedAt TEXT NOT NULL,
  countsJson TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

func officerColumnsDDL() string {
	var b strings.Builder
	for i := 1; i <= internal.OfficerSlots; i++ {
		fmt.Fprintf(&b, "  name%d_short TEXT,\n  role%d TEXT,\n", i, i)
	}
	return b.String()
}

func breakdownColumnsDDL() string {
	var b strings.Builder
	for i := 1; i <= internal.BreakdownSlots; i++ {
		fmt.Fprintf(&b, "  exp%d TEXT,\n  cost%d REAL,\n  req%d REAL,\n  grant%d REAL,\n", i, i, i, i)
	}
	return b.String()
}

func (d *DB) UpsertClubs(clubs []internal.RawClub) error {
	return d.upsert("club", clubColumns, len(clubs), func(i int) []any {
		c := clubs[i]
		return clubFields(&c)
	})
}

func (d *DB) UpsertBudgetItems(items []internal.RawBudgetItem) error {
	return d.upsert("budgetitems", budgetItemColumns, len(items), func(i int) []any {
		item := items[i]
		return budgetItemFields(&item)
	})
}

func (d *DB) UpsertUserMappings(users []internal.RawUserMapping) error {
	return d.upsert("usermapping", userMappingColumns, len(users), func(i int) []any {
		u := users[i]
		return userMappingFields(&u)
	})
}

// upsert writes n rows in one transaction; the first column is the
// conflict key.
func (d *DB) upsert(table string, cols []column, n int, row func(i int) []any) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(upsertSQL(table, cols))
	if err != nil {
		return fmt.Errorf("prepare %s upsert: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(row(i)...); err != nil {
			return fmt.Errorf("upsert %s row %d: %w", table, i, err)
		}
	}

	return tx.Commit()
}

func (d *DB) ListClubs() ([]internal.RawClub, error) {
	rows, err := d.conn.Query(`SELECT node_id, ` + selectList(clubColumns) + ` FROM club ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RawClub
	for rows.Next() {
		var c internal.RawClub
		if err := rows.Scan(append([]any{&c.ID}, clubFields(&c)...)...); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (d *DB) GetClub(mysqlID int) (internal.RawClub, error) {
	var c internal.RawClub
	err := d.conn.QueryRow(`SELECT node_id, `+selectList(clubColumns)+` FROM club WHERE id = ?`, mysqlID).
		Scan(append([]any{&c.ID}, clubFields(&c)...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.RawClub{}, fmt.Errorf("club %d: %w", mysqlID, ErrNotFound)
	}
	if err != nil {
		return internal.RawClub{}, err
	}
	return c, nil
}

func (d *DB) ListBudgetItems() ([]internal.RawBudgetItem, error) {
	return d.queryBudgetItems(`SELECT node_id, ` + selectList(budgetItemColumns) + ` FROM budgetitems ORDER BY id ASC`)
}

func (d *DB) ListBudgetItemsByClub(mysqlID int) ([]internal.RawBudgetItem, error) {
	return d.queryBudgetItems(`SELECT node_id, `+selectList(budgetItemColumns)+` FROM budgetitems WHERE club_id = ? ORDER BY id ASC`, mysqlID)
}

func (d *DB) queryBudgetItems(query string, args ...any) ([]internal.RawBudgetItem, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RawBudgetItem
	for rows.Next() {
		var item internal.RawBudgetItem
		if err := rows.Scan(append([]any{&item.ID}, budgetItemFields(&item)...)...); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (d *DB) ListUserMappings() ([]internal.RawUserMapping, error) {
	rows, err := d.conn.Query(`SELECT ` + selectList(userMappingColumns) + ` FROM usermapping ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RawUserMapping
	for rows.Next() {
		var u internal.RawUserMapping
		if err := rows.Scan(userMappingFields(&u)...); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(runID string, startedAt, finishedAt time.Time, counts internal.RunCounts) error {
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (id, startedAt, finishedAt, countsJson) VALUES (?, ?, ?, ?)`,
		runID, startedAt.UTC().Format(time.RFC3339), finishedAt.UTC().Format(time.RFC3339), string(countsJSON))
	return err
}

func (d *DB) CountRuns() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
