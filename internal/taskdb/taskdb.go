// Package taskdb reads task rows out of the source SQLite database. It is
// read-only: one connection, one filtered query, the whole result set
// materialized before anything downstream runs.
package taskdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"taskport/internal/config"
)

type DB struct {
	db *sql.DB
}

// Task is one source row. Fields not selected by the active profile stay
// in their zero (invalid) state.
type Task struct {
	ID       sql.NullString
	Content  sql.NullString
	Due      sql.NullInt64
	Reminder sql.NullInt64
	Status   sql.NullString
	Metadata sql.NullString
	Priority sql.NullString
}

// Open connects to the database at path and verifies it is actually a
// SQLite database before returning. The driver opens lazily, so without the
// probe query a bogus path would only fail once the first row is read.
func Open(path string) (*DB, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("open database: %s is a directory", path)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	var n int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&n); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s is not a sqlite database: %w", path, err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// ActiveTasks runs the single export query: every row of the profile's task
// table whose status column equals the profile's active-status marker, in
// table order. Only the columns the profile needs are selected, so a source
// table without a metadata or priority column still works for profiles that
// never read them.
func (d *DB) ActiveTasks(ctx context.Context, p config.Profile) ([]Task, error) {
	cols := []string{p.Columns.ID, p.Columns.Content, p.Columns.Due, p.Columns.Reminder, p.Columns.Status}
	if p.Description {
		cols = append(cols, p.Columns.Metadata)
	}
	if p.PriorityMode == config.PriorityColumn {
		cols = append(cols, p.Columns.Priority)
	}

	quoted := make([]string, 0, len(cols))
	for _, col := range cols {
		q, err := quoteIdent(col)
		if err != nil {
			return nil, err
		}
		quoted = append(quoted, q)
	}
	table, err := quoteIdent(p.Table)
	if err != nil {
		return nil, err
	}
	statusCol, err := quoteIdent(p.Columns.Status)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", strings.Join(quoted, ", "), table, statusCol)
	slog.Debug("sql query", "query", query, "status", p.ActiveStatus)
	start := time.Now()

	rows, err := d.db.QueryContext(ctx, query, p.ActiveStatus)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		dest := []any{&t.ID, &t.Content, &t.Due, &t.Reminder, &t.Status}
		if p.Description {
			dest = append(dest, &t.Metadata)
		}
		if p.PriorityMode == config.PriorityColumn {
			dest = append(dest, &t.Priority)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	slog.Debug("sql query done", "duration_ms", time.Since(start).Milliseconds(), "rows", len(tasks))
	return tasks, nil
}

// quoteIdent wraps an identifier for interpolation into the SELECT. Column
// and table names come from a user-editable mapping file, so they cannot be
// bound as parameters and must be kept to plain identifier characters.
func quoteIdent(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty identifier in column mapping")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return "", fmt.Errorf("invalid identifier %q in column mapping", name)
		}
	}
	return `"` + name + `"`, nil
}
