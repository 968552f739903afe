package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateNumber signals a unique-constraint violation on
	// (company_id, document_number); callers retry with a fresh number.
	ErrDuplicateNumber = errors.New("document number already exists")

	// ErrDuplicateEmail signals a unique-constraint violation on a user email
	ErrDuplicateEmail = errors.New("email already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
