// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sqlite3 registers the sqlite3 driver for use with the db
// package. Import it for its side effects.
package sqlite3

import (
	"database/sql"

	"github.com/mattn/go-sqlite3"

	"github.com/evm-substate/benchlog/storage/db"
)

func init() {
	db.RegisterOpenHook("sqlite3", func(sqldb *sql.DB) error {
		// Every connection to ":memory:" is a separate database.
		sqldb.SetMaxOpenConns(1)
		if d, ok := sqldb.Driver().(*sqlite3.SQLiteDriver); ok {
			d.ConnectHook = func(c *sqlite3.SQLiteConn) error {
				_, err := c.Exec("PRAGMA foreign_keys = ON", nil)
				return err
			}
		}
		return nil
	})
}
