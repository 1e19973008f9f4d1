package postgres

import (
	"context"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

type ownerRepository struct {
	db querier
}

func (r *ownerRepository) Save(ctx context.Context, o *model.Owner) error {
	const query = `INSERT INTO owners (id, full_name, email, password_hash) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, o.ID, o.FullName, o.Email, o.PasswordHash); err != nil {
		return translateError(err)
	}
	return nil
}

func (r *ownerRepository) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	const query = `SELECT id, full_name, email, password_hash FROM owners WHERE id=$1`
	return r.findOne(ctx, query, id)
}

func (r *ownerRepository) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	const query = `SELECT id, full_name, email, password_hash FROM owners WHERE lower(email)=lower($1)`
	return r.findOne(ctx, query, email)
}

func (r *ownerRepository) findOne(ctx context.Context, query string, arg string) (*model.Owner, error) {
	var o model.Owner
	if err := r.db.QueryRow(ctx, query, arg).Scan(&o.ID, &o.FullName, &o.Email, &o.PasswordHash); err != nil {
		return nil, translateError(err)
	}
	return &o, nil
}
