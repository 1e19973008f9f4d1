package repository

import (
	"context"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

// OwnerRepository describes persistence operations for machine owners.
type OwnerRepository interface {
	Save(ctx context.Context, owner *model.Owner) error
	FindByID(ctx context.Context, id string) (*model.Owner, error)
	FindByEmail(ctx context.Context, email string) (*model.Owner, error)
}
