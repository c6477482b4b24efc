package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ExecScript runs a SQL script (for example fixture data) in a single
// transaction. Nothing is applied if any statement fails.
func (db *DB) ExecScript(script string) (int, error) {
	statements := splitSQLStatements(script)
	if len(statements) == 0 {
		return 0, nil
	}

	err := db.Transaction(func(tx *sql.Tx) error {
		for i, stmt := range statements {
			if _, err := tx.Exec(stmt); err != nil {
				return fmt.Errorf("statement %d failed: %w", i+1, classifyError(err))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Debug().Int("statements", len(statements)).Msg("Script applied")
	return len(statements), nil
}
