package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// TableBookingRepo stores restaurant bookings.  The table's primary key
// is (idtavolo, data, ora); idprenotazione is a secondary unique id.
type TableBookingRepo struct {
	db *sqlx.DB
}

// NewTableBookingRepo returns a TableBookingRepo bound to db.
func NewTableBookingRepo(db *sqlx.DB) *TableBookingRepo { return &TableBookingRepo{db: db} }

const tableBookingColumns = `idprenotazione, idtavolo, username, data, ora, ospiti`

// List returns restaurant bookings matching f, newest slot first.
func (r *TableBookingRepo) List(ctx context.Context, f model.BookingFilter) ([]model.TableBooking, error) {
	q, args := filtered(`SELECT `+tableBookingColumns+` FROM prenotazioni_ristorante`, f, "idtavolo")
	q += ` ORDER BY data DESC, ora DESC`
	out := []model.TableBooking{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, storageErr("list table bookings", err)
	}
	return out, nil
}

// Insert stores b.  A second booking of the same table, day and time
// violates the primary key and is reported as ErrConflict.
func (r *TableBookingRepo) Insert(ctx context.Context, b *model.TableBooking) error {
	const q = `INSERT INTO prenotazioni_ristorante (idtavolo, username, data, ora, ospiti) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.TableID, b.Username, b.Date, b.Time, b.Guests)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return storageErr("insert table booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert table booking", err)
	}
	b.ID = id
	return nil
}

// Delete removes the booking at key, restricted to owner's bookings when
// owner is set, and returns the removed row.
func (r *TableBookingRepo) Delete(ctx context.Context, key model.TableKey, owner string) (model.TableBooking, error) {
	return deleteOwned[model.TableBooking](ctx, r.db, "delete table booking",
		"prenotazioni_ristorante", tableBookingColumns, "idtavolo = ? AND data = ? AND ora = ?",
		owner, key.TableID, key.Date, key.Time)
}
