package database

import (
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	OpAddReview             = "add_review"
	OpUpsertProductSupplier = "upsert_product_supplier"
)

// WriteResult reports the outcome of a write operation. Err is nil on commit;
// otherwise it wraps one of the package sentinel errors and the driver error.
type WriteResult struct {
	Op  string
	Err error
}

// OK reports whether the write committed.
func (r WriteResult) OK() bool {
	return r.Err == nil
}

// runWrite executes a single statement in its own transaction. Storage errors
// are logged and returned inside the result rather than as an error.
func (db *DB) runWrite(op string, fields func(*zerolog.Event), query string, args ...any) WriteResult {
	err := db.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(query, args...)
		return err
	})
	if err == nil {
		return WriteResult{Op: op}
	}

	err = classifyError(err)
	event := log.Error().Err(err).Str("op", op)
	if fields != nil {
		fields(event)
	}
	event.Msg("Write operation failed")

	return WriteResult{Op: op, Err: err}
}
