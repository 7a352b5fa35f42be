package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// BeachBookingRepo stores umbrella bookings in prenotazioni_spiaggia.
type BeachBookingRepo struct {
	db *sqlx.DB
}

// NewBeachBookingRepo returns a BeachBookingRepo bound to db.
func NewBeachBookingRepo(db *sqlx.DB) *BeachBookingRepo { return &BeachBookingRepo{db: db} }

const beachColumns = `idprenotazione, username, ombrellone, datainizio, datafine`

// beachOverlapCount runs under the umbrella's lock row, so a plain read
// sees every committed booking of that umbrella.
const beachOverlapCount = `SELECT COUNT(*) FROM prenotazioni_spiaggia WHERE ombrellone = ? AND ` + overlapsRange

// List returns umbrella bookings matching f, oldest first.
func (r *BeachBookingRepo) List(ctx context.Context, f model.BookingFilter) ([]model.BeachBooking, error) {
	q, args := filtered(`SELECT `+beachColumns+` FROM prenotazioni_spiaggia`, f, "ombrellone")
	q += ` ORDER BY idprenotazione`
	out := []model.BeachBooking{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, storageErr("list beach bookings", err)
	}
	return out, nil
}

// FindOverlapping returns the bookings of umbrella whose days intersect
// [start, end], boundaries included.
func (r *BeachBookingRepo) FindOverlapping(ctx context.Context, umbrella string, start, end model.Date) ([]model.BeachBooking, error) {
	const q = `SELECT ` + beachColumns + ` FROM prenotazioni_spiaggia WHERE ombrellone = ? AND ` + overlapsRange
	out := []model.BeachBooking{}
	if err := r.db.SelectContext(ctx, &out, q, umbrella, start, end); err != nil {
		return nil, storageErr("find overlapping beach bookings", err)
	}
	return out, nil
}

// Occupied lists the distinct umbrellas with at least one booking that
// intersects [start, end].
func (r *BeachBookingRepo) Occupied(ctx context.Context, start, end model.Date) ([]string, error) {
	const q = `SELECT DISTINCT ombrellone FROM prenotazioni_spiaggia WHERE ` + overlapsRange + ` ORDER BY ombrellone`
	out := []string{}
	if err := r.db.SelectContext(ctx, &out, q, start, end); err != nil {
		return nil, storageErr("occupied umbrellas", err)
	}
	return out, nil
}

// InsertExclusive stores b unless the umbrella is already booked on any of
// its days.  Lock, overlap check and insert run in one transaction, so two
// concurrent requests for the same umbrella cannot both succeed.  On
// success b.ID is set.
func (r *BeachBookingRepo) InsertExclusive(ctx context.Context, b *model.BeachBooking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin beach booking", err)
	}
	committed := false
	defer rollback(tx, &committed)

	if err := lockResource(ctx, tx, model.KindBeach, b.Umbrella); err != nil {
		return storageErr("lock umbrella", err)
	}
	var n int
	if err := tx.GetContext(ctx, &n, beachOverlapCount, b.Umbrella, b.Start, b.End); err != nil {
		return storageErr("check umbrella overlap", err)
	}
	if n > 0 {
		return ErrConflict
	}
	const ins = `INSERT INTO prenotazioni_spiaggia (username, ombrellone, datainizio, datafine) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.Username, b.Umbrella, b.Start, b.End)
	if err != nil {
		return storageErr("insert beach booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert beach booking", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit beach booking", err)
	}
	committed = true
	b.ID = id
	return nil
}

// Delete removes booking id and returns it.  When owner is not empty only
// a booking made by owner is removed; anything else reports ErrNotFound.
func (r *BeachBookingRepo) Delete(ctx context.Context, id int64, owner string) (model.BeachBooking, error) {
	return deleteOwned[model.BeachBooking](ctx, r.db, "delete beach booking",
		"prenotazioni_spiaggia", beachColumns, "idprenotazione = ?", owner, id)
}
