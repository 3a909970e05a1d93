// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package record stores bench samples in an SQLite database. Each Recorder
// tags its rows with a unique run id so that several runs can share a file.
//
package record

import (
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/db47h/counter4/bench"
	"github.com/fatih/structs"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
)

// Table is the name of the samples table.
//
const Table = "samples"

const defaultBatchSize = 10000

// row is one table row. Column names and order follow the struct fields.
//
type row struct {
	RunID    string
	Scenario string
	Cycle    int64
	TimeNS   int64
	Edge     int
	RstN     bool
	Ena      bool
	UIIn     int
	UIOIn    int
	UIOOut   int
}

func newRow(runID string, s bench.Sample) row {
	return row{
		RunID:    runID,
		Scenario: s.Scenario,
		Cycle:    int64(s.Cycle),
		TimeNS:   int64(s.Time),
		Edge:     s.Edge,
		RstN:     s.RstN,
		Ena:      s.Ena,
		UIIn:     int(s.Control),
		UIOIn:    int(s.Data),
		UIOOut:   int(s.Output),
	}
}

func (r *row) sample() bench.Sample {
	return bench.Sample{
		Scenario: r.Scenario,
		Cycle:    uint(r.Cycle),
		Time:     time.Duration(r.TimeNS),
		Edge:     r.Edge,
		RstN:     r.RstN,
		Ena:      r.Ena,
		Control:  uint8(r.UIIn),
		Data:     uint8(r.UIOIn),
		Output:   uint8(r.UIOOut),
	}
}

// Recorder is a bench.Observer that writes samples to SQLite in batches.
//
type Recorder struct {
	mu      sync.Mutex
	db      *sql.DB
	path    string
	runID   string
	insert  string
	pending []row
	batch   int
	err     error
	closed  bool
}

// DefaultPath returns a fresh database file name.
//
func DefaultPath() string {
	return "counter4_" + xid.New().String() + ".sqlite3"
}

// New opens or creates the database at path and starts a new run. Pending
// samples are flushed when the program exits through atexit.Exit.
//
func New(path string) (*Recorder, error) {
	if path == "" {
		path = DefaultPath()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	r := &Recorder{
		db:    db,
		path:  path,
		runID: xid.New().String(),
		batch: defaultBatchSize,
	}
	names := structs.Names(row{})
	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS ` + Table +
		` (` + "\n\t" + strings.Join(names, ", \n\t") + "\n" + `);`)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create table in %s", path)
	}
	r.insert = `INSERT INTO ` + Table + ` VALUES (?` + strings.Repeat(", ?", len(names)-1) + `)`

	atexit.Register(func() { r.Close() })
	return r, nil
}

// Path returns the database file name.
//
func (r *Recorder) Path() string { return r.path }

// RunID returns the id tagging the rows of this run.
//
func (r *Recorder) RunID() string { return r.runID }

// Observe buffers s. Write errors are reported by Flush and Close.
//
func (r *Recorder) Observe(s bench.Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.pending = append(r.pending, newRow(r.runID, s))
	if len(r.pending) >= r.batch {
		r.flush()
	}
}

// Flush writes the buffered samples in a single transaction.
//
func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flush()
	return r.err
}

func (r *Recorder) flush() {
	if len(r.pending) == 0 || r.err != nil {
		return
	}
	tx, err := r.db.Begin()
	if err != nil {
		r.err = errors.Wrap(err, "begin transaction")
		return
	}
	stmt, err := tx.Prepare(r.insert)
	if err != nil {
		tx.Rollback()
		r.err = errors.Wrap(err, "prepare insert")
		return
	}
	defer stmt.Close()
	for i := range r.pending {
		if _, err = stmt.Exec(structs.Values(r.pending[i])...); err != nil {
			tx.Rollback()
			r.err = errors.Wrap(err, "insert sample")
			return
		}
	}
	if err = tx.Commit(); err != nil {
		r.err = errors.Wrap(err, "commit")
		return
	}
	r.pending = r.pending[:0]
}

// Close flushes pending samples and closes the database. It is safe to call
// Close more than once.
//
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.err
	}
	r.flush()
	r.closed = true
	if err := r.db.Close(); err != nil && r.err == nil {
		r.err = errors.Wrap(err, "close database")
	}
	return r.err
}

// Samples returns the samples recorded for runID in recording order. Pending
// samples are flushed first.
//
func (r *Recorder) Samples(runID string) ([]bench.Sample, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flush()
	if r.err != nil {
		return nil, r.err
	}
	rows, err := r.db.Query(`SELECT * FROM `+Table+` WHERE RunID = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, errors.Wrap(err, "query samples")
	}
	defer rows.Close()
	var ss []bench.Sample
	for rows.Next() {
		var rw row
		if err = rows.Scan(&rw.RunID, &rw.Scenario, &rw.Cycle, &rw.TimeNS, &rw.Edge,
			&rw.RstN, &rw.Ena, &rw.UIIn, &rw.UIOIn, &rw.UIOOut); err != nil {
			return nil, errors.Wrap(err, "scan sample")
		}
		ss = append(ss, rw.sample())
	}
	return ss, errors.Wrap(rows.Err(), "read samples")
}

// Runs returns the run ids stored in the database.
//
func (r *Recorder) Runs() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, err := r.db.Query(`SELECT DISTINCT RunID FROM ` + Table + ` ORDER BY RunID`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, errors.Wrap(err, "scan run id")
		}
		ids = append(ids, id)
	}
	return ids, errors.Wrap(rows.Err(), "read runs")
}
