package store

import (
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// pq error code for unique_violation.
const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation from
// either backing driver. Used to map racing inserts to a conflict response
// instead of an internal error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
