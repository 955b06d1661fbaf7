package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/linkbot/internal/directory/store"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isConnectionError reports failures of the pool or the sqlite lock rather
// than of the statement itself.
func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return true
		}
	}

	// database/sql does not export its closed-pool error.
	return strings.Contains(err.Error(), "sql: database is closed")
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}

// isUniqueViolationOn reports a UNIQUE failure on column, given as
// "table.column" the way sqlite names it in the error message.
func isUniqueViolationOn(err error, column string) bool {
	return isUniqueViolation(err) && strings.Contains(err.Error(), column)
}

func mapReadError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", store.ErrConnection, err)
	default:
		return err
	}
}

func mapCreateError(err error) error {
	switch {
	case err == nil:
		return nil
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", store.ErrConnection, err)
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w: %w", store.ErrCreate, store.ErrAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", store.ErrCreate, err)
	}
}

func mapDeleteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", store.ErrConnection, err)
	default:
		return fmt.Errorf("%w: %w", store.ErrDelete, err)
	}
}
