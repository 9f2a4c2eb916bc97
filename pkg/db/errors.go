package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Postgres errors carry the class 23505 code on pgconn.PgError; the sqlite
// driver used in tests only surfaces the violation through its message, so
// a text match covers that path. When constraintName is non-empty the
// violation must reference that constraint on the postgres paths; sqlite
// messages cannot be scoped that way.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return constraintName == "" || pgErr.ConstraintName == constraintName
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		// sqlite names the violated columns, never the constraint, so the
		// name cannot be checked on this path.
		return true
	case strings.Contains(msg, "duplicate key value"):
		return constraintName == "" || strings.Contains(msg, constraintName)
	default:
		return false
	}
}
