// Package sqlite opens the catalog's SQLite database and keeps its schema
// current.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open connects to the SQLite database at the given path (":memory:" for an
// in-memory database), applies connection pragmas, and runs any pending
// migrations.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}

	// Pragmas ride on the DSN so the pool applies them to every connection
	// it opens, including replacements for discarded ones. An Exec would
	// only reach the single connection that happened to run it.
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc's driver serializes writes; a single connection avoids
	// SQLITE_BUSY between the pool's connections.
	conn.SetMaxOpenConns(1)

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return conn, nil
}
