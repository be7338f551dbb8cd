package recording

import (
	"context"
	"database/sql"
	"fmt"
)

// Query selects recorded entries. Empty fields do not filter.
type Query struct {
	Session string
	Manager string
	Kind    string

	// Limit is the maximum number of entries returned. Zero means no limit.
	Limit int
}

// Read returns the entries that match the query, in recording order.
func Read(ctx context.Context, db *sql.DB, q Query) ([]Entry, error) {
	sqlStr := "SELECT Session, Manager, Kind, ItemID, VertexTime, Now, " +
		"Direction, Progress, Detail FROM " + TableName + " WHERE 1 = 1"
	args := []any{}

	if q.Session != "" {
		sqlStr += " AND Session = ?"
		args = append(args, q.Session)
	}

	if q.Manager != "" {
		sqlStr += " AND Manager = ?"
		args = append(args, q.Manager)
	}

	if q.Kind != "" {
		sqlStr += " AND Kind = ?"
		args = append(args, q.Kind)
	}

	sqlStr += " ORDER BY rowid"

	if q.Limit > 0 {
		sqlStr += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", TableName, err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var e Entry

		err := rows.Scan(&e.Session, &e.Manager, &e.Kind, &e.ItemID,
			&e.VertexTime, &e.Now, &e.Direction, &e.Progress, &e.Detail)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", TableName, err)
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// OpenReader opens a recording file for reading.
func OpenReader(filename string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	return db, nil
}
