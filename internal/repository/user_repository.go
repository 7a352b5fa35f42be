package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ghm/hotel-booking/internal/model"
	"github.com/ghm/hotel-booking/internal/utils"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// Create hashes password and inserts the user.
func (r *UserRepo) Create(ctx context.Context, username, password, role string, cost int) (model.User, error) {
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO utenti (username, password, ruolo) VALUES (?,?,?)",
		username, hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, storageErr("create user", err)
	}
	return model.User{Username: username, PasswordHash: hash, Role: role}, nil
}

// GetByUsername fetches a user, or ErrNotFound.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u,
		"SELECT username, password, ruolo, COALESCE(nome, '') AS nome FROM utenti WHERE username=? LIMIT 1",
		strings.TrimSpace(username))
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	if err != nil {
		return u, storageErr("get user", err)
	}
	return u, nil
}
