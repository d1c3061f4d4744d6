// Package sqlite implements the repository interfaces on SQLite.
//
// The driver is modernc.org/sqlite — a pure Go translation of SQLite, so
// the binary builds without CGo and ":memory:" databases keep the tests
// self-contained. Dynamic queries (the filtered directory scan) are built
// with goqu rather than hand-concatenated SQL.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	// Registers the goqu "sqlite3" dialect used by goqu.Dialect below.
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// dialect builds SQL for the filtered scans. Prepared(true) keeps every
// value a bind parameter.
var dialect = goqu.Dialect("sqlite3")

// DB wraps a sql.DB connection pool. The per-entity stores returned by
// Services/Categories/Users/Feedback share this pool and implement the
// interfaces declared in the repository package.
type DB struct {
	conn *sql.DB
}

// Services returns the directory store.
func (db *DB) Services() *ServiceStore { return &ServiceStore{conn: db.conn} }

// Categories returns the category registry store.
func (db *DB) Categories() *CategoryStore { return &CategoryStore{conn: db.conn} }

// Users returns the account store.
func (db *DB) Users() *UserStore { return &UserStore{conn: db.conn} }

// Feedback returns the feedback store.
func (db *DB) Feedback() *FeedbackStore { return &FeedbackStore{conn: db.conn} }

// New opens the SQLite database at dbPath (":memory:" for tests), verifies
// the connection, and runs migrations.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// A pooled ":memory:" database opens a fresh empty database per
	// connection; a single connection keeps the schema visible everywhere.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight, which matters for
	// a web server where the query endpoint is the hot path.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Callers should defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps it safe to
// run on every start.
//
// The service table intentionally has NO foreign key on category: deleting
// a category must not cascade into (or be blocked by) the services that
// reference it. The user table's UNIQUE constraints on username and email
// backstop the uniqueness invariant even though the service layer also
// pre-checks both.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS service (
			id             TEXT PRIMARY KEY,
			name           TEXT NOT NULL,
			category       TEXT NOT NULL,
			latitude       REAL NOT NULL,
			longitude      REAL NOT NULL,
			address        TEXT NOT NULL,
			city           TEXT NOT NULL,
			state          TEXT NOT NULL,
			zipcode        TEXT NOT NULL,
			contact_number TEXT NOT NULL DEFAULT '',
			operation_hour TEXT NOT NULL DEFAULT '',
			availability   INTEGER NOT NULL DEFAULT 0,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_service_category ON service(category);
	`)
	if err != nil {
		return fmt.Errorf("creating service table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS category (
			id            TEXT PRIMARY KEY,
			category_name TEXT NOT NULL UNIQUE,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating category table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user (
			id                 TEXT PRIMARY KEY,
			username           TEXT NOT NULL UNIQUE,
			first_name         TEXT NOT NULL,
			last_name          TEXT NOT NULL,
			password_hash      TEXT NOT NULL,
			email              TEXT NOT NULL UNIQUE,
			phone              TEXT NOT NULL DEFAULT '',
			reset_token        TEXT,
			reset_token_expiry DATETIME,
			created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS feedback (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			service_id TEXT NOT NULL,
			rating     INTEGER NOT NULL,
			comment    TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_feedback_service_id ON feedback(service_id);
	`)
	if err != nil {
		return fmt.Errorf("creating feedback table: %w", err)
	}

	return nil
}
