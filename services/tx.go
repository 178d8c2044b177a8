package services

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const txAttempts = 3

// runTx executes fn in one transaction and retries it, bounded, when the
// storage layer reports transient contention. Business errors are never
// retried and surface to the caller as-is.
func runTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error
	for attempt := 0; attempt < txAttempts; attempt++ {
		err = db.Transaction(fn)
		if err == nil || !isTransientError(err) {
			return err
		}
	}
	return err
}

// isTransientError classifies serialization failures, deadlocks and lock
// timeouts, the only storage errors eligible for an automatic retry.
func isTransientError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// isUniqueViolation reports whether err is a unique-constraint rejection.
// These back the one-open-game-per-user and one-answer-per-slot invariants,
// so the services translate them into Conflict.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
