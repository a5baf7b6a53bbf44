package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/student-board/internal/model"
)

// AccountRepo persists account records in the 'account' table.
type AccountRepo struct{ DB *sql.DB }

func NewAccountRepo(db *sql.DB) *AccountRepo { return &AccountRepo{DB: db} }

// Create inserts a new account. The password must already be hashed
// by the caller; this layer never sees plaintext. A duplicate-key
// violation on the primary key is reported as ErrDuplicateID.
func (r *AccountRepo) Create(ctx context.Context, a model.Account) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO account (id, password_hash, name, school, birthdate) VALUES (?,?,?,?,?)",
		a.ID, a.PasswordHash, a.Name, a.School, a.Birthdate)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

// GetByID fetches an account by its id. Returns sql.ErrNoRows when
// no such account exists.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, password_hash, name, school, birthdate FROM account WHERE id=? LIMIT 1",
		id).Scan(&a.ID, &a.PasswordHash, &a.Name, &a.School, &a.Birthdate)
	return a, err
}
