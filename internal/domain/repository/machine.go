package repository

import (
	"context"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

// MachineRepository describes persistence operations for machines with their coins and stock.
type MachineRepository interface {
	FindByID(ctx context.Context, id string) (*model.Machine, error)
	Save(ctx context.Context, machine *model.Machine) error
	Update(ctx context.Context, machine *model.Machine) error
}
