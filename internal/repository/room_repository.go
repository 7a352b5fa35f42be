package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// RoomRepo reads and edits the DettagliCamera catalogue.
type RoomRepo struct {
	db *sqlx.DB
}

// NewRoomRepo returns a RoomRepo bound to db.
func NewRoomRepo(db *sqlx.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `idcamera, nomecamera, descrizionecamera, imgcamera, prezzocamera`

// List returns every room ordered by id.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	out := []model.Room{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+roomColumns+` FROM DettagliCamera ORDER BY idcamera`); err != nil {
		return nil, storageErr("list rooms", err)
	}
	return out, nil
}

// Get returns the room with the given id or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, id int64) (model.Room, error) {
	var room model.Room
	err := r.db.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM DettagliCamera WHERE idcamera = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return room, ErrNotFound
	}
	if err != nil {
		return room, storageErr("get room", err)
	}
	return room, nil
}

// Update replaces name, description and price of room.ID.  The image is
// left untouched.
func (r *RoomRepo) Update(ctx context.Context, room model.Room) error {
	const q = `UPDATE DettagliCamera SET nomecamera = ?, descrizionecamera = ?, prezzocamera = ? WHERE idcamera = ?`
	res, err := r.db.ExecContext(ctx, q, room.Name, room.Description, room.Price, room.ID)
	if err != nil {
		return storageErr("update room", err)
	}
	// The DSN sets clientFoundRows, so an unchanged row still counts.
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("update room", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
