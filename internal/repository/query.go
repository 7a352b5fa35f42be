package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// overlapsRange matches rows whose [datainizio, datafine] intersects the
// two bound dates, boundaries included.  Args: start, end.
const overlapsRange = `NOT (datafine < ? OR datainizio > ?)`

// filtered appends a WHERE clause for the non-empty fields of f.  refColumn
// names the column that holds the resource reference for the table.
func filtered(base string, f model.BookingFilter, refColumn string) (string, []any) {
	var conds []string
	var args []any
	if f.Username != "" {
		conds = append(conds, "username = ?")
		args = append(args, f.Username)
	}
	if f.ResourceRef != "" && refColumn != "" {
		conds = append(conds, refColumn+" = ?")
		args = append(args, f.ResourceRef)
	}
	if len(conds) == 0 {
		return base, args
	}
	return base + " WHERE " + strings.Join(conds, " AND "), args
}

// deleteOwned removes the row of table matched by where and returns it as
// it was.  When owner is set the row must also belong to owner.  No
// matching row is reported as ErrNotFound.
func deleteOwned[T any](ctx context.Context, db *sqlx.DB, op, table, columns, where, owner string, args ...any) (T, error) {
	var row, zero T
	if owner != "" {
		where += " AND username = ?"
		args = append(args, owner)
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return zero, storageErr(op, err)
	}
	committed := false
	defer rollback(tx, &committed)

	err = tx.GetContext(ctx, &row, `SELECT `+columns+` FROM `+table+` WHERE `+where+` FOR UPDATE`, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, storageErr(op, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+where, args...); err != nil {
		return zero, storageErr(op, err)
	}
	if err := tx.Commit(); err != nil {
		return zero, storageErr(op, err)
	}
	committed = true
	return row, nil
}
