package database

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrForeignKey   = errors.New("foreign key violation")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrConstraint   = errors.New("constraint violation")
	ErrBusy         = errors.New("database is locked")
	ErrStorage      = errors.New("storage operation failed")
)

// classifyError wraps err with the sentinel that best describes it.
// Anything not recognised is reported as ErrStorage.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	reason := ErrStorage

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		reason = reasonForCode(sqliteErr.Code())
	}

	// Extended codes are not always reported; the message is stable across versions
	if reason == ErrStorage || reason == ErrConstraint {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "FOREIGN KEY constraint failed"):
			reason = ErrForeignKey
		case strings.Contains(msg, "UNIQUE constraint failed"):
			reason = ErrDuplicateKey
		case strings.Contains(msg, "database is locked"):
			reason = ErrBusy
		}
	}

	return fmt.Errorf("%w: %w", reason, err)
}

func reasonForCode(code int) error {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return ErrForeignKey
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return ErrDuplicateKey
	}

	switch code & 0xff {
	case sqlite3.SQLITE_CONSTRAINT:
		return ErrConstraint
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return ErrBusy
	}
	return ErrStorage
}
