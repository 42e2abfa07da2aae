package repository

import (
	"database/sql"
	"time"
)

// dateLayout stores calendar dates (planned and completion dates).
const dateLayout = "2006-01-02"

// parseNullableTime parses a sql.NullString into a *time.Time using the given layout.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableTime(s sql.NullString, layout string) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(layout, s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableTimeToString converts a *time.Time to a value suitable for storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted string.
func nullableTimeToString(t *time.Time, layout string) interface{} {
	if t == nil {
		return nil
	}
	if layout == time.RFC3339 {
		return t.UTC().Format(layout)
	}
	return t.Format(layout)
}

// nullableIntToValue converts a *int to a value suitable for storage.
func nullableIntToValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableStringToValue converts a *string to a value suitable for storage.
func nullableStringToValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

// nullableString converts a scanned sql.NullString into a *string.
func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// nullableInt converts a scanned sql.NullInt64 into a *int.
func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// boolToInt converts a Go bool to an integer (0 or 1) for storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool converts a stored integer (0 or 1) to a Go bool.
func intToBool(i int) bool {
	return i != 0
}

// formatTime renders a timestamp the way every timestamp column stores it.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
