// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite C code — works everywhere Go works.
//
// The pattern throughout this package is plain database/sql:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
//
// Each request-scoped operation borrows a connection from the pool for the
// duration of one query and returns it unconditionally — there is no manual
// connection lifecycle anywhere above this package.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: the driver registers itself with database/sql
	// under the name "sqlite" at init time.
	_ "modernc.org/sqlite"

	"github.com/arshkhan-pathan/todo-service/internal/repository"
)

// DB wraps a sql.DB connection pool and provides the repository methods.
type DB struct {
	conn *sql.DB
}

// Compile-time checks that *DB satisfies the repository interfaces.
// If a method goes missing, the build fails here instead of at a call site.
var _ repository.Store = (*DB)(nil)

// New creates a new SQLite database connection and runs migrations.
//
// dbPath examples:
//   - "data/todo.db"  → file-based database (persistent)
//   - ":memory:"      → in-memory database (tests, lost on close)
//
// PRAGMAS GO IN THE DSN, NOT IN AN Exec:
// A PRAGMA statement run through conn.Exec only configures the one pooled
// connection that happens to execute it; database/sql opens more
// connections on demand, and those would come up with SQLite's defaults
// (foreign keys OFF). Encoding the pragmas as _pragma query parameters
// makes the driver apply them to every connection it opens:
//   - journal_mode(WAL): concurrent reads while a write is in flight —
//     default SQLite locks the whole file during writes
//   - foreign_keys(1): every todo's owner_id must resolve to an existing
//     user at insert time
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite",
		dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory SQLite database exists per connection — a second pooled
	// connection would see a separate, empty database. One connection keeps
	// the schema and the data in the same place.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	// sql.Open doesn't actually connect; Ping forces the first connection
	// so a bad path surfaces now rather than on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection pool. Callers should defer this
// right after New() succeeds.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it
// idempotent — safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			username        TEXT NOT NULL UNIQUE,
			email           TEXT NOT NULL DEFAULT '',
			first_name      TEXT NOT NULL DEFAULT '',
			last_name       TEXT NOT NULL DEFAULT '',
			hashed_password TEXT NOT NULL,
			role            TEXT NOT NULL DEFAULT 'user',
			is_active       BOOLEAN NOT NULL DEFAULT 1,
			created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			priority    INTEGER NOT NULL DEFAULT 1,
			complete    BOOLEAN NOT NULL DEFAULT 0,
			owner_id    INTEGER NOT NULL REFERENCES users(id),
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_todos_owner_id ON todos(owner_id);
	`)
	if err != nil {
		return fmt.Errorf("creating todos table: %w", err)
	}

	return nil
}
