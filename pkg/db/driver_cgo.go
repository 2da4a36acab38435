//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package db

import (
	_ "github.com/mattn/go-sqlite3"
)

const sqliteDriver = "sqlite3"
