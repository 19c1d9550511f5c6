package repositories

import (
	"errors"
	"fmt"

	"github.com/desertthunder/socotk/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// storeErr wraps a storage failure in [shared.ErrStore].
func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", shared.ErrStore, op, err)
}
