// Package memory keeps repositories in a process-local go-memdb database.
// Write transactions are exclusive, so purchases on the same store run one
// after another and a failed purchase leaves no trace.
package memory

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-memdb"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

const (
	tableMachines = "machines"
	tableOrders   = "orders"
	tablePayments = "payments"
	tableOwners   = "owners"

	indexID      = "id"
	indexEmail   = "email"
	indexOrder   = "order"
	indexMachine = "machine"
)

func schema() *memdb.DBSchema {
	byID := &memdb.IndexSchema{
		Name:    indexID,
		Unique:  true,
		Indexer: &memdb.StringFieldIndex{Field: "ID"},
	}
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			tableMachines: {
				Name:    tableMachines,
				Indexes: map[string]*memdb.IndexSchema{indexID: byID},
			},
			tableOrders: {
				Name: tableOrders,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: byID,
					indexMachine: {
						Name:    indexMachine,
						Indexer: &memdb.StringFieldIndex{Field: "MachineID"},
					},
				},
			},
			tablePayments: {
				Name: tablePayments,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: byID,
					indexOrder: {
						Name:    indexOrder,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "OrderID"},
					},
				},
			},
			tableOwners: {
				Name: tableOwners,
				Indexes: map[string]*memdb.IndexSchema{
					indexID: byID,
					indexEmail: {
						Name:    indexEmail,
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
					},
				},
			},
		},
	}
}

// Store is an in-memory repository transactor.
type Store struct {
	db *memdb.MemDB
}

var (
	_ repository.Transactor = (*Store)(nil)
	_ repository.Factory    = txRepositories{}
)

// New creates an empty store.
func New() (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	return &Store{db: db}, nil
}

// Atomically runs fn inside a write transaction committed only when fn succeeds.
func (s *Store) Atomically(ctx context.Context, fn func(ctx context.Context, repos repository.Factory) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	if err := fn(ctx, txRepositories{txn: txn}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(context.Context) error {
	return nil
}

// Machine reads the committed state of a machine.
func (s *Store) Machine(id string) (*model.Machine, error) {
	return (&machineRepository{txn: s.db.Txn(false)}).FindByID(context.Background(), id)
}

// Order reads the committed state of an order regardless of its creation month.
func (s *Store) Order(id string) (*model.Order, error) {
	raw, err := s.db.Txn(false).First(tableOrders, indexID, id)
	if err := found(raw, err, "order", id); err != nil {
		return nil, err
	}
	return raw.(*model.Order).Clone(), nil
}

// OrdersForMachine lists committed orders of a machine.
func (s *Store) OrdersForMachine(machineID string) ([]*model.Order, error) {
	it, err := s.db.Txn(false).Get(tableOrders, indexMachine, machineID)
	if err != nil {
		return nil, err
	}
	var result []*model.Order
	for raw := it.Next(); raw != nil; raw = it.Next() {
		result = append(result, raw.(*model.Order).Clone())
	}
	return result, nil
}

// PaymentsForOrder lists committed payments of an order.
func (s *Store) PaymentsForOrder(orderID string) ([]*model.Payment, error) {
	it, err := s.db.Txn(false).Get(tablePayments, indexOrder, orderID)
	if err != nil {
		return nil, err
	}
	var result []*model.Payment
	for raw := it.Next(); raw != nil; raw = it.Next() {
		result = append(result, raw.(*model.Payment).Clone())
	}
	return result, nil
}

type txRepositories struct {
	txn *memdb.Txn
}

func (r txRepositories) Machines() repository.MachineRepository {
	return &machineRepository{txn: r.txn}
}

func (r txRepositories) Orders() repository.OrderRepository {
	return &orderRepository{txn: r.txn}
}

func (r txRepositories) Payments() repository.PaymentRepository {
	return &paymentRepository{txn: r.txn}
}

func (r txRepositories) Owners() repository.OwnerRepository {
	return &ownerRepository{txn: r.txn}
}
