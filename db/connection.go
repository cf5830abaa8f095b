package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mindpath-app/mindpath/log"
)

// DB wraps the sqlite connection and is passed explicitly to the
// components that need it (handlers, workers, stores).
type DB struct {
	conn       *sql.DB
	path       string
	logQueries bool
}

// Option configures a DB during Open.
type Option func(*DB)

// WithQueryLogging enables debug logging of every statement.
func WithQueryLogging() Option {
	return func(d *DB) { d.logQueries = true }
}

// Open opens (creating if needed) the sqlite database at path and runs all
// pending migrations.
func Open(path string, opts ...Option) (*DB, error) {
	if err := ensureDatabaseDirectory(path); err != nil {
		return nil, err
	}

	// WAL mode, foreign keys, and a busy timeout to tolerate the single
	// writer sqlite allows.
	dsn := path + "?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_cache_size=-64000"

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single writer
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	d := &DB{conn: conn, path: path}
	for _, opt := range opts {
		opt(d)
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info().Str("path", path).Msg("database initialized")
	return d, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Conn exposes the raw connection for ad-hoc queries
func (d *DB) Conn() *sql.DB {
	return d.conn
}

// ensureDatabaseDirectory creates the directory for the database file if it doesn't exist
func ensureDatabaseDirectory(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
		log.Info().Str("dir", dir).Msg("created database directory")
	}
	return nil
}

// Transaction executes a function within a database transaction
func (d *DB) Transaction(fn func(*sql.Tx) error) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}
