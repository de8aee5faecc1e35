package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	return hasPgCode(err, "23505") // unique_violation
}

// IsPgInvalidRegexError checks if a regular expression operand was rejected
func IsPgInvalidRegexError(err error) bool {
	return hasPgCode(err, "2201B") // invalid_regular_expression
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
