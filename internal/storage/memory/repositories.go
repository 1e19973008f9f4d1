package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-memdb"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

func found(raw any, err error, kind, key string) error {
	if err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("%w: %s %s", domainErrors.ErrNotFound, kind, key)
	}
	return nil
}

func exists(txn *memdb.Txn, table, index, key string) (bool, error) {
	raw, err := txn.First(table, index, key)
	if err != nil {
		return false, err
	}
	return raw != nil, nil
}

func insertNew(txn *memdb.Txn, table, kind, id string, obj any) error {
	ok, err := exists(txn, table, indexID, id)
	if err != nil {
		return err
	}
	if ok {
		return fmt.Errorf("%w: %s %s", domainErrors.ErrAlreadyExists, kind, id)
	}
	return txn.Insert(table, obj)
}

func replaceExisting(txn *memdb.Txn, table, kind, id string, obj any) error {
	ok, err := exists(txn, table, indexID, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s %s", domainErrors.ErrNotFound, kind, id)
	}
	return txn.Insert(table, obj)
}

type machineRepository struct {
	txn *memdb.Txn
}

func (r *machineRepository) FindByID(_ context.Context, id string) (*model.Machine, error) {
	raw, err := r.txn.First(tableMachines, indexID, id)
	if err := found(raw, err, "machine", id); err != nil {
		return nil, err
	}
	return raw.(*model.Machine).Clone(), nil
}

func (r *machineRepository) Save(_ context.Context, m *model.Machine) error {
	return insertNew(r.txn, tableMachines, "machine", m.ID, m.Clone())
}

func (r *machineRepository) Update(_ context.Context, m *model.Machine) error {
	return replaceExisting(r.txn, tableMachines, "machine", m.ID, m.Clone())
}

type orderRepository struct {
	txn *memdb.Txn
}

func (r *orderRepository) Save(_ context.Context, o *model.Order) error {
	return insertNew(r.txn, tableOrders, "order", o.ID, o.Clone())
}

func (r *orderRepository) Update(_ context.Context, o *model.Order) error {
	return replaceExisting(r.txn, tableOrders, "order", o.ID, o.Clone())
}

func (r *orderRepository) FindByIDAndMachineID(_ context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	raw, err := r.txn.First(tableOrders, indexID, orderID)
	if err := found(raw, err, "order", orderID); err != nil {
		return nil, err
	}
	order := raw.(*model.Order)
	if order.MachineID != machineID || !order.InPeriod(createdAt.UTC()) {
		return nil, fmt.Errorf("%w: order %s", domainErrors.ErrNotFound, orderID)
	}
	return order.Clone(), nil
}

type paymentRepository struct {
	txn *memdb.Txn
}

func (r *paymentRepository) Save(_ context.Context, p *model.Payment) error {
	paid, err := exists(r.txn, tablePayments, indexOrder, p.OrderID)
	if err != nil {
		return err
	}
	if paid {
		return fmt.Errorf("%w: payment for order %s", domainErrors.ErrAlreadyExists, p.OrderID)
	}
	return insertNew(r.txn, tablePayments, "payment", p.ID, p.Clone())
}

type ownerRepository struct {
	txn *memdb.Txn
}

func (r *ownerRepository) Save(_ context.Context, o *model.Owner) error {
	taken, err := exists(r.txn, tableOwners, indexEmail, o.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: owner email %s", domainErrors.ErrAlreadyExists, o.Email)
	}
	owner := *o
	return insertNew(r.txn, tableOwners, "owner", o.ID, &owner)
}

func (r *ownerRepository) FindByID(_ context.Context, id string) (*model.Owner, error) {
	return r.first(indexID, id)
}

func (r *ownerRepository) FindByEmail(_ context.Context, email string) (*model.Owner, error) {
	return r.first(indexEmail, email)
}

func (r *ownerRepository) first(index, key string) (*model.Owner, error) {
	raw, err := r.txn.First(tableOwners, index, key)
	if err := found(raw, err, "owner", key); err != nil {
		return nil, err
	}
	owner := *raw.(*model.Owner)
	return &owner, nil
}
