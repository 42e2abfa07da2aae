package repository

import (
	"errors"
	"strings"

	"github.com/alexanderramin/tempo/internal/db"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is wrapped by lookups that match no row.
	ErrNotFound = errors.New("not found")
	// ErrOpenSessionExists is returned when an insert would give a user a
	// second open session.
	ErrOpenSessionExists = errors.New("user already has an open session")
	// ErrAlreadyClosed is returned when closing a row whose end time is set.
	ErrAlreadyClosed = errors.New("session already closed")
)

// pqUniqueViolation is the SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// isOpenSessionViolation reports whether err came from the partial unique
// index on open sessions, for either driver.
func isOpenSessionViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation && pqErr.Constraint == db.OpenSessionIndex
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		// SQLite names the indexed column, not the index.
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(liteErr.Error(), "task_time_logs.user_id")
	}
	return false
}
