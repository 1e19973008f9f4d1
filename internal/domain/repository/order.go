package repository

import (
	"context"
	"time"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
// Lookups are bounded to the creation month of createdAt.
type OrderRepository interface {
	Save(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	FindByIDAndMachineID(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error)
}
