package sqlite

import (
	"errors"
	"strings"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// isUniqueViolation reports whether err was raised by a UNIQUE constraint.
// The driver reports extended result codes, but the primary code plus the
// message is accepted too.
func isUniqueViolation(err error) bool {
	var sqlErr *sqlitedrv.Error
	if !errors.As(err, &sqlErr) {
		return false
	}

	code := sqlErr.Code()
	if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return code&0xff == sqlite3.SQLITE_CONSTRAINT &&
		strings.Contains(sqlErr.Error(), "UNIQUE")
}
