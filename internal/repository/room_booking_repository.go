package repository

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// RoomBookingRepo stores room reservations in the prenotazioni table.
type RoomBookingRepo struct {
	db *sqlx.DB
}

// NewRoomBookingRepo returns a RoomBookingRepo bound to db.
func NewRoomBookingRepo(db *sqlx.DB) *RoomBookingRepo { return &RoomBookingRepo{db: db} }

const roomBookingColumns = `idprenotazione, idcamera, username, datainizio, datafine, ospiti`

const roomOverlapCount = `SELECT COUNT(*) FROM prenotazioni WHERE idcamera = ? AND ` + overlapsRange

// List returns room bookings matching f ordered by id.  A ResourceRef in
// the filter is matched against idcamera.
func (r *RoomBookingRepo) List(ctx context.Context, f model.BookingFilter) ([]model.RoomBooking, error) {
	q, args := filtered(`SELECT `+roomBookingColumns+` FROM prenotazioni`, f, "idcamera")
	q += ` ORDER BY idprenotazione`
	out := []model.RoomBooking{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, storageErr("list room bookings", err)
	}
	return out, nil
}

// FindOverlapping returns the bookings of room whose stay intersects
// [start, end], boundaries included.
func (r *RoomBookingRepo) FindOverlapping(ctx context.Context, roomID int64, start, end model.Date) ([]model.RoomBooking, error) {
	const q = `SELECT ` + roomBookingColumns + ` FROM prenotazioni WHERE idcamera = ? AND ` + overlapsRange
	out := []model.RoomBooking{}
	if err := r.db.SelectContext(ctx, &out, q, roomID, start, end); err != nil {
		return nil, storageErr("find overlapping room bookings", err)
	}
	return out, nil
}

// InsertExclusive stores b unless the room is already taken on one of the
// requested days.  On success b.ID is set.
func (r *RoomBookingRepo) InsertExclusive(ctx context.Context, b *model.RoomBooking) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return storageErr("begin room booking", err)
	}
	committed := false
	defer rollback(tx, &committed)

	if err := lockResource(ctx, tx, model.KindRoom, strconv.FormatInt(b.RoomID, 10)); err != nil {
		return storageErr("lock room", err)
	}
	var n int
	if err := tx.GetContext(ctx, &n, roomOverlapCount, b.RoomID, b.Start, b.End); err != nil {
		return storageErr("check room overlap", err)
	}
	if n > 0 {
		return ErrConflict
	}
	const ins = `INSERT INTO prenotazioni (idcamera, username, datainizio, datafine, ospiti) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins, b.RoomID, b.Username, b.Start, b.End, b.Guests)
	if err != nil {
		return storageErr("insert room booking", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert room booking", err)
	}
	if err := tx.Commit(); err != nil {
		return storageErr("commit room booking", err)
	}
	committed = true
	b.ID = id
	return nil
}

// Delete removes booking id, restricted to owner's bookings when owner is
// set, and returns the removed row.
func (r *RoomBookingRepo) Delete(ctx context.Context, id int64, owner string) (model.RoomBooking, error) {
	return deleteOwned[model.RoomBooking](ctx, r.db, "delete room booking",
		"prenotazioni", roomBookingColumns, "idprenotazione = ?", owner, id)
}
