package database

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/saltyorg/shopdb/internal/config"
)

// DB owns the single SQLite connection used by the repository.
type DB struct {
	conn *sql.DB
	path string
	mu   sync.Mutex
}

// New opens the database at path and enables foreign key enforcement.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", buildDSN(path, config.GetTimeouts().BusyTimeout.Milliseconds()))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: pragmas are per-connection and the repository has a single owner
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := newDB(db, path)
	if err := d.ensureForeignKeys(); err != nil {
		db.Close()
		return nil, err
	}

	log.Debug().Str("path", path).Msg("Database connection established")

	return d, nil
}

func newDB(conn *sql.DB, path string) *DB {
	return &DB{conn: conn, path: path}
}

func buildDSN(path string, busyTimeoutMS int64) string {
	return fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", path, busyTimeoutMS)
}

// ensureForeignKeys turns on and verifies foreign key enforcement for the connection.
func (db *DB) ensureForeignKeys() error {
	if _, err := db.exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	var enabled int
	if err := db.queryRow("PRAGMA foreign_keys").Scan(&enabled); err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if enabled != 1 {
		return fmt.Errorf("foreign key enforcement is not available")
	}
	return nil
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}

// SetBusyTimeout changes how long the connection waits on a locked database.
func (db *DB) SetBusyTimeout(d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("busy timeout must not be negative: %s", d)
	}
	if _, err := db.exec(fmt.Sprintf("PRAGMA busy_timeout = %d", d.Milliseconds())); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return nil
}

// BusyTimeout returns the busy timeout currently in effect on the connection.
func (db *DB) BusyTimeout() (time.Duration, error) {
	var ms int64
	if err := db.queryRow("PRAGMA busy_timeout").Scan(&ms); err != nil {
		return 0, fmt.Errorf("failed to read busy timeout: %w", err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// Close releases the underlying connection. Safe to call more than once.
func (db *DB) Close() error {
	if db == nil || db.conn == nil {
		return nil
	}
	err := db.conn.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	log.Debug().Str("path", db.path).Msg("Database connection closed")
	return nil
}

// Transaction runs fn inside a transaction. It commits when fn returns nil and
// rolls back on an error or panic; the error is returned and a panic re-raised.
func (db *DB) Transaction(fn func(*sql.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	tx, err := db.begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true

	return nil
}
