// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db stores refined instruction rows in a SQL database so that
// runs can be queried after the CSV files are gone.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"

	"github.com/evm-substate/benchlog/instr"
	"github.com/evm-substate/benchlog/segment"
)

// DB is a high-level interface to the row database. It's safe for
// concurrent use by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertRun *sql.Stmt
	insertRow *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(driverName); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to configure its connections.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Runs (
	RunID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}}
);
CREATE TABLE IF NOT EXISTS InstructionRows (
	RunID BIGINT UNSIGNED,
	Segment INTEGER,
	RowID BIGINT UNSIGNED,
	Block BIGINT,
	TxIndex BIGINT,
	TotalInst BIGINT,
	LiveInst BIGINT,
	TotalGas BIGINT,
	LiveGas BIGINT,
	RatioInst DOUBLE,
	RatioGas DOUBLE,
	PRIMARY KEY (RunID, Segment, RowID),
{{if not .sqlite3}}
	Index (Block, TxIndex),
{{end}}
	FOREIGN KEY (RunID) REFERENCES Runs(RunID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS InstructionRowsBlockTx ON InstructionRows(Block, TxIndex);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements(driverName string) error {
	var err error
	q := "INSERT INTO Runs() VALUES ()"
	if driverName == "sqlite3" {
		q = "INSERT INTO Runs DEFAULT VALUES"
	}
	db.insertRun, err = db.sql.Prepare(q)
	if err != nil {
		return err
	}
	db.insertRow, err = db.sql.Prepare(`INSERT INTO InstructionRows
		(RunID, Segment, RowID, Block, TxIndex, TotalInst, LiveInst, TotalGas, LiveGas, RatioInst, RatioGas)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	return nil
}

// A Run is one export of refined rows. All rows inserted through a
// Run share its ID.
type Run struct {
	// ID is the primary key of the run.
	ID int64

	db *DB
}

// NewRun allocates a new run ID.
func (db *DB) NewRun(ctx context.Context) (*Run, error) {
	res, err := db.insertRun.ExecContext(ctx)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Run{ID: id, db: db}, nil
}

// InsertRows inserts the refined rows of seg in a single transaction.
// Rows are numbered by their position in rows.
func (r *Run) InsertRows(ctx context.Context, seg segment.Segment, rows []instr.Row) (err error) {
	tx, err := r.db.sql.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	stmt := tx.StmtContext(ctx, r.db.insertRow)
	for i, row := range rows {
		_, err = stmt.ExecContext(ctx, r.ID, int(seg), i,
			row.Block, row.TxIndex,
			row.TotalInst, row.LiveInst, row.TotalGas, row.LiveGas,
			row.RatioInst, row.RatioGas)
		if err != nil {
			return fmt.Errorf("insert %s row %d: %w", seg, i, err)
		}
	}
	return nil
}

// CountRows returns the number of rows stored for run in seg.
func (db *DB) CountRows(ctx context.Context, runID int64, seg segment.Segment) (int, error) {
	var n int
	err := db.sql.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM InstructionRows WHERE RunID = ? AND Segment = ?", runID, int(seg)).Scan(&n)
	return n, err
}

// DeadInstPct recomputes a segment's dead instruction percentage from
// the stored rows of run.
func (db *DB) DeadInstPct(ctx context.Context, runID int64, seg segment.Segment) (float64, error) {
	var total, live sql.NullInt64
	err := db.sql.QueryRowContext(ctx,
		"SELECT SUM(TotalInst), SUM(LiveInst) FROM InstructionRows WHERE RunID = ? AND Segment = ?",
		runID, int(seg)).Scan(&total, &live)
	if err != nil {
		return 0, err
	}
	if !total.Valid || total.Int64 == 0 {
		return 0, nil
	}
	return float64(total.Int64-live.Int64) / float64(total.Int64) * 100, nil
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertRun.Close(); err != nil {
		return err
	}
	if err := db.insertRow.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
