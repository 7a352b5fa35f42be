// Package repository holds the MySQL-backed stores and the error values
// they share.  Handlers and the booking service compare against these
// sentinels with errors.Is to pick an HTTP status: ErrConflict becomes a
// 409, ErrNotFound a 404, ErrForbidden a 403 and ErrBusy a 503.  Any
// other driver failure is wrapped in a StorageError and ends up as a 500.
package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert would overlap an existing
// booking of the same resource, or hit an already taken restaurant slot.
var ErrConflict = errors.New("conflict")

// ErrNotFound is returned when an update or delete matched no row.
var ErrNotFound = errors.New("not found")

// ErrBusy is returned when MySQL aborted a statement because of lock
// contention (deadlock or lock wait timeout).  The request may be retried.
var ErrBusy = errors.New("resource busy")

// ErrUsernameExists is returned by UserRepo.Create for a taken username.
var ErrUsernameExists = errors.New("username already exists")

// StorageError wraps an unexpected database failure with the name of the
// operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err for op.  Lock contention additionally matches
// ErrBusy so callers can tell it from a broken database.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isLockContention(err) {
		err = fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return &StorageError{Op: op, Err: err}
}

// MySQL server error numbers the stores react to.
const (
	errDuplicateKey    = 1062
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
)

// isLockContention reports whether err is a deadlock or lock wait
// timeout, after which InnoDB has rolled back the statement or the
// whole transaction.
func isLockContention(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == errDeadlock || me.Number == errLockWaitTimeout
	}
	return false
}

// isDuplicateKey reports whether err is MySQL error 1062.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == errDuplicateKey
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
