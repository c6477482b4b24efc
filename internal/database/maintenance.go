package database

import (
	"database/sql"
	"fmt"
)

// Optimize runs SQLite's PRAGMA optimize to refresh planner stats.
func (db *DB) Optimize() error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.exec("PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}

	return nil
}

// Vacuum rebuilds the database file to reclaim unused space.
func (db *DB) Vacuum() error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.exec("VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}

	return nil
}

// ForeignKeyViolation is one row reported by PRAGMA foreign_key_check.
type ForeignKeyViolation struct {
	Table       string
	RowID       *int64
	ParentTable string
	FKIndex     int64
}

// ForeignKeyCheck lists rows whose references are dangling. Rows written while
// enforcement was off (or by another tool) are the only way to get any.
func (db *DB) ForeignKeyCheck() ([]ForeignKeyViolation, error) {
	rows, err := db.query("PRAGMA foreign_key_check")
	if err != nil {
		return nil, fmt.Errorf("failed to run foreign key check: %w", err)
	}
	defer rows.Close()

	var violations []ForeignKeyViolation
	for rows.Next() {
		var (
			v     ForeignKeyViolation
			rowID sql.NullInt64
		)
		if err := rows.Scan(&v.Table, &rowID, &v.ParentTable, &v.FKIndex); err != nil {
			return nil, fmt.Errorf("failed to scan foreign key violation: %w", err)
		}
		v.RowID = nullInt64ToPtr(rowID)
		violations = append(violations, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate foreign key violations: %w", err)
	}

	return violations, nil
}
