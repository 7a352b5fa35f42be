package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// lockQuery creates the lock row on first use and otherwise touches it.
// Both paths leave tx holding an exclusive lock on the row.  INSERT
// IGNORE must not be used here: on a duplicate it takes a shared lock.
const lockQuery = `INSERT INTO booking_locks (resource_kind, resource_ref) VALUES (?, ?)
                   ON DUPLICATE KEY UPDATE resource_ref = resource_ref`

// lockResource serialises writers of one resource for the lifetime of tx.
// Two transactions booking the same umbrella (or room) queue up here
// while bookings of other resources proceed in parallel.  The lock row
// also covers a resource with no bookings yet, which a locking read on
// the booking table would not.
func lockResource(ctx context.Context, tx *sqlx.Tx, kind model.Kind, ref string) error {
	_, err := tx.ExecContext(ctx, lockQuery, string(kind), ref)
	return err
}

// rollback is deferred by transactional writers; it is a no-op once the
// transaction has been committed.
func rollback(tx *sqlx.Tx, committed *bool) {
	if !*committed {
		_ = tx.Rollback()
	}
}
