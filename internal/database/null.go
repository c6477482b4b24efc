package database

import (
	"database/sql"
	"strings"
)

// nullInt64ToPtr converts a sql.NullInt64 to a pointer (nil if not valid)
func nullInt64ToPtr(n sql.NullInt64) *int64 {
	if n.Valid {
		return &n.Int64
	}
	return nil
}

// nullStringToPtr converts a sql.NullString to a pointer (nil if not valid)
func nullStringToPtr(n sql.NullString) *string {
	if n.Valid {
		return &n.String
	}
	return nil
}

// nullStringValue converts a sql.NullString to a string (empty if not valid)
func nullStringValue(n sql.NullString) string {
	if n.Valid {
		return n.String
	}
	return ""
}

// tagSeparator is the unit separator, char(31) in SQL. Report queries join
// names with it because it does not occur in ordinary text.
const tagSeparator = "\x1f"

// splitConcat splits a GROUP_CONCAT(..., char(31)) result.
// NULL and empty input yield nil.
func splitConcat(n sql.NullString) []string {
	if !n.Valid || n.String == "" {
		return nil
	}
	return strings.Split(n.String, tagSeparator)
}
