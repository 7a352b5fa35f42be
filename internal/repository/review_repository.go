package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
)

// ReviewRepo stores guest reviews in Recensioni.
type ReviewRepo struct {
	db *sqlx.DB
}

// NewReviewRepo returns a ReviewRepo bound to db.
func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// List returns all reviews, newest first.
func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	out := []model.Review{}
	const q = `SELECT idRecensione, username, testo, voto FROM Recensioni ORDER BY idRecensione DESC`
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, storageErr("list reviews", err)
	}
	return out, nil
}

// Insert stores rv and sets its id.
func (r *ReviewRepo) Insert(ctx context.Context, rv *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO Recensioni (username, testo, voto) VALUES (?, ?, ?)`,
		rv.Username, rv.Text, rv.Rating)
	if err != nil {
		return storageErr("insert review", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return storageErr("insert review", err)
	}
	rv.ID = id
	return nil
}
