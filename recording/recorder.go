// Package recording stores timeline crossings in a SQLite database.
package recording

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/sarchlab/chartline/hooking"
	"github.com/sarchlab/chartline/timeline"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// TableName is the table crossings are written to.
const TableName = "crossing"

// Entry is one recorded crossing.
type Entry struct {
	Session    string
	Manager    string
	Kind       string
	ItemID     int
	VertexTime int64
	Now        int64
	Direction  string
	Progress   float64
	Detail     string
}

// A CrossingRecorder is a hook that records every crossing it sees. Entries
// are buffered and written in batches. The buffer is flushed when the batch
// is full, when Flush or Close is called, and when the program exits through
// atexit.
type CrossingRecorder struct {
	*sql.DB

	lock      sync.Mutex
	filename  string
	session   string
	batchSize int
	entries   []Entry
}

// New creates a recorder that writes to path + ".sqlite3". An empty path
// picks a name from the session id. It is an error for the file to exist.
func New(path string) (*CrossingRecorder, error) {
	session := xid.New().String()

	if path == "" {
		path = "chartline_recording_" + session
	}

	filename := path + ".sqlite3"

	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("file %s already exists", filename)
	}

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	r, err := newRecorder(db, session)
	if err != nil {
		db.Close()
		return nil, err
	}

	r.filename = filename

	return r, nil
}

// NewWithDB creates a recorder that writes into an open database.
func NewWithDB(db *sql.DB) (*CrossingRecorder, error) {
	return newRecorder(db, xid.New().String())
}

func newRecorder(db *sql.DB, session string) (*CrossingRecorder, error) {
	r := &CrossingRecorder{
		DB:        db,
		session:   session,
		batchSize: 10000,
	}

	if err := r.createTable(); err != nil {
		return nil, err
	}

	atexit.Register(func() {
		if err := r.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "recording: %v\n", err)
		}
	})

	return r, nil
}

func (r *CrossingRecorder) createTable() error {
	_, err := r.Exec(`CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	Session TEXT,
	Manager TEXT,
	Kind TEXT,
	ItemID INTEGER,
	VertexTime INTEGER,
	Now INTEGER,
	Direction TEXT,
	Progress REAL,
	Detail TEXT
);`)
	if err != nil {
		return fmt.Errorf("create table %s: %w", TableName, err)
	}

	return nil
}

// WithBatchSize sets how many entries are buffered before a write.
func (r *CrossingRecorder) WithBatchSize(n int) *CrossingRecorder {
	r.batchSize = max(n, 1)
	return r
}

// Session returns the id that tags every entry written by this recorder.
func (r *CrossingRecorder) Session() string {
	return r.session
}

// Filename returns the database file, or an empty string if the recorder was
// given a database.
func (r *CrossingRecorder) Filename() string {
	return r.filename
}

// Pending returns the number of buffered entries.
func (r *CrossingRecorder) Pending() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.entries)
}

// Func records the crossing carried by the hook context.
func (r *CrossingRecorder) Func(ctx hooking.HookCtx) {
	c, ok := ctx.Item.(timeline.Crossing)
	if !ok {
		return
	}

	e := Entry{
		Session:    r.session,
		Manager:    c.Manager,
		Kind:       ctx.Pos.Name,
		ItemID:     c.ID,
		VertexTime: c.VertexTime,
		Now:        ctx.Now,
		Direction:  c.Direction.String(),
		Progress:   c.Progress,
	}

	if ctx.Detail != nil {
		e.Detail = fmt.Sprint(ctx.Detail)
	}

	r.lock.Lock()
	r.entries = append(r.entries, e)
	full := len(r.entries) >= r.batchSize
	r.lock.Unlock()

	if full {
		if err := r.Flush(); err != nil {
			panic(err)
		}
	}
}

// Flush writes the buffered entries in one transaction.
func (r *CrossingRecorder) Flush() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if len(r.entries) == 0 {
		return nil
	}

	tx, err := r.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(
		"INSERT INTO " + TableName + " VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range r.entries {
		_, err := stmt.Exec(e.Session, e.Manager, e.Kind, e.ItemID,
			e.VertexTime, e.Now, e.Direction, e.Progress, e.Detail)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert crossing: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.entries = nil

	return nil
}

// Close flushes the buffer and closes the database.
func (r *CrossingRecorder) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}

	return r.DB.Close()
}

var _ hooking.Hook = (*CrossingRecorder)(nil)
