package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	machines repository.MachineRepository
	orders   repository.OrderRepository
	newID    IDGenerator
	now      Clock
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(machines repository.MachineRepository, orders repository.OrderRepository, newID IDGenerator, now Clock) *OrderUseCase {
	return &OrderUseCase{machines: machines, orders: orders, newID: newID, now: now}
}

// Create reserves qty units of a product in a new PENDING order. Stock is not touched.
func (u *OrderUseCase) Create(ctx context.Context, machineID, productID string, qty int, createdAt time.Time) (*model.Order, error) {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return nil, err
	}
	product, err := machine.AvailableProduct(productID, qty)
	if err != nil {
		return nil, err
	}

	if createdAt.IsZero() {
		createdAt = u.now()
	}
	createdAt = createdAt.UTC()

	item, err := model.NewOrderItem(u.newID(), product.Snapshot(), qty, createdAt)
	if err != nil {
		return nil, err
	}
	order, err := model.NewOrder(u.newID(), machine.ID, []model.OrderItem{item}, createdAt)
	if err != nil {
		return nil, err
	}
	if err := u.orders.Save(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Find looks an order up within the month of createdAt.
func (u *OrderUseCase) Find(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	return findOrder(ctx, u.orders, orderID, machineID, createdAt)
}

// Deliver marks a pending order as delivered.
func (u *OrderUseCase) Deliver(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	return u.transition(ctx, orderID, machineID, createdAt, (*model.Order).Deliver)
}

// Cancel marks a pending order as canceled.
func (u *OrderUseCase) Cancel(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	return u.transition(ctx, orderID, machineID, createdAt, (*model.Order).Cancel)
}

func (u *OrderUseCase) transition(ctx context.Context, orderID, machineID string, createdAt time.Time, move func(*model.Order, time.Time) error) (*model.Order, error) {
	order, err := findOrder(ctx, u.orders, orderID, machineID, createdAt)
	if err != nil {
		return nil, err
	}
	if err := move(order, u.now().UTC()); err != nil {
		return nil, err
	}
	if err := u.orders.Update(ctx, order); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}

func findOrder(ctx context.Context, orders repository.OrderRepository, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	order, err := orders.FindByIDAndMachineID(ctx, orderID, machineID, createdAt.UTC())
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	return order, nil
}
