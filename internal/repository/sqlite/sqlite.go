// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY SQLITE?
// The rotation tracker is a single-user, local tool. An embedded database
// that lives in one file next to the binary needs no server, no credentials
// and no setup beyond a directory to write to. Tests use ":memory:".
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 needs cgo and a C toolchain, which makes cross-compiling
// painful. modernc.org/sqlite is a pure Go translation of SQLite, so
// `go build` works everywhere Go works.
//
// FIXED SQL VS. SQUIRREL:
// Statements whose shape never changes (the food catalog, the rename and
// delete transactions) are plain SQL strings. Queries that are assembled
// from optional parts (an entry list with or without a lower bound, the
// availability predicate) go through the squirrel builder, so optional
// WHERE clauses are added without string concatenation.
//
// DATABASE/SQL OVERVIEW:
//   - sql.DB: a connection pool (NOT a single connection!)
//   - sql.Tx: a transaction pinned to one connection
//   - sql.Rows: multiple result rows (must be closed!)
//
// The pattern is always:
//  1. sql.Open(driverName, dataSourceName) → creates a pool
//  2. db.QueryContext / db.ExecContext     → runs queries
//  3. rows.Scan(&field1, &field2)          → reads results into Go variables
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	// BLANK IMPORT:
	// The driver's init() registers it with database/sql under the name
	// "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// builder emits "?" placeholders, which is what SQLite expects. squirrel
// defaults to "?" too, but naming it keeps the choice visible next to the
// driver.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// connPragmas are applied by the driver to EVERY connection it opens.
//
// WHY IN THE DSN AND NOT conn.Exec("PRAGMA ...")?
// PRAGMAs are per-connection state. An Exec after sql.Open configures
// whichever connection the pool happened to hand out; if database/sql later
// discards that connection (driver.ErrBadConn, a closed idle conn) the
// replacement comes up with SQLite's defaults, and foreign keys are OFF by
// default. modernc.org/sqlite runs each `_pragma=` query parameter when it
// opens a connection, so no connection can skip them.
//
//   - foreign_keys(1): entries.food_id must point at a real food or be NULL.
//   - journal_mode(WAL): readers do not block on the writer, so a slow
//     summary query never stalls a log request. In-memory databases ignore
//     it and stay in "memory" mode.
var connPragmas = []string{
	"foreign_keys(1)",
	"journal_mode(WAL)",
}

// DB wraps a sql.DB connection pool and implements every repository
// interface: FoodRepository, EntryRepository and RotationRepository.
//
// WHY ONE TYPE FOR ALL THREE?
// Rename and delete touch both tables in one transaction, and the rotation
// queries join them. Splitting the store per table would mean passing
// transactions between repositories; one DB keeps that inside this package
// while services still only see the narrow interface they need.
type DB struct {
	conn *sql.DB
}

// New opens the database at dbPath, verifies the connection and creates the
// schema if it is missing.
//
// dbPath examples:
//   - "data/rotation.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests, lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// SQLite allows a single writer at a time no matter how many connections
	// exist, so a bigger pool only adds SQLITE_BUSY retries on write bursts.
	// It also matters for ":memory:": every new connection to ":memory:" is
	// a brand-new empty database, so a pool of more than one would lose the
	// schema the moment a second connection is opened.
	conn.SetMaxOpenConns(1)

	// sql.Open only creates the pool manager. Ping forces a real connection
	// so a bad path or missing permission fails here, not on the first query.
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

// dsn appends the connection pragmas to dbPath as query parameters.
func dsn(dbPath string) string {
	params := make([]string, 0, len(connPragmas))
	for _, p := range connPragmas {
		params = append(params, "_pragma="+p)
	}

	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + strings.Join(params, "&")
}

// Close closes the connection pool. The server defers it in Start so the WAL
// is checkpointed and the file lock released on shutdown.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks that the database is reachable. It backs GET /healthz.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

// migrate creates the schema. Every statement is idempotent, so it runs on
// every start.
//
// MIGRATIONS:
// There are two tables and no history of schema changes to replay, so
// CREATE ... IF NOT EXISTS is the whole migration story. A tool like
// golang-migrate becomes worth it once a column has to change.
func (db *DB) migrate() error {
	// name is UNIQUE with the default (case-sensitive) collation: "rice" and
	// "Rice" may both exist. Lookup by typed name is what ignores case.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS foods (
			id   INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating foods table: %w", err)
	}

	// ENTRY COLUMNS:
	//   - food_id is nullable: a detaching food delete clears it.
	//   - food_name is a copy of the food's name, not something to JOIN for.
	//     Once food_id is NULL it is the entry's only label, and the summary
	//     groups by it, so it has to live on the row.
	//   - date is TEXT in model.TimestampLayout. Fixed width, always UTC, so
	//     string order is time order and idx_entries_date serves both
	//     ORDER BY date and the `date >= ?` filter directly.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			food_id   INTEGER,
			food_name TEXT NOT NULL,
			date      TEXT NOT NULL,
			FOREIGN KEY(food_id) REFERENCES foods(id)
		);
		CREATE INDEX IF NOT EXISTS idx_entries_food_id ON entries(food_id);
		CREATE INDEX IF NOT EXISTS idx_entries_date ON entries(date);
	`)
	if err != nil {
		return fmt.Errorf("creating entries table: %w", err)
	}

	return nil
}
