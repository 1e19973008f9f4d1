package test

import (
	"context"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

// MachineRepositoryStub keeps machines in a map and records updates.
type MachineRepositoryStub struct {
	Machines map[string]*model.Machine
	Updates  []*model.Machine
	FindErr  error
	SaveErr  error
	UpdateFn func(context.Context, *model.Machine) error
}

// NewMachineRepositoryStub seeds the stub with copies of machines.
func NewMachineRepositoryStub(machines ...*model.Machine) *MachineRepositoryStub {
	s := &MachineRepositoryStub{Machines: make(map[string]*model.Machine)}
	for _, m := range machines {
		s.Machines[m.ID] = m.Clone()
	}
	return s
}

// FindByID returns a copy of the stored machine.
func (s *MachineRepositoryStub) FindByID(ctx context.Context, id string) (*model.Machine, error) {
	if s.FindErr != nil {
		return nil, s.FindErr
	}
	if m, ok := s.Machines[id]; ok {
		return m.Clone(), nil
	}
	return nil, domainErrors.ErrNotFound
}

// Save stores a new machine.
func (s *MachineRepositoryStub) Save(ctx context.Context, m *model.Machine) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Machines == nil {
		s.Machines = make(map[string]*model.Machine)
	}
	if _, ok := s.Machines[m.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.Machines[m.ID] = m.Clone()
	return nil
}

// Update replaces a stored machine and records the call.
func (s *MachineRepositoryStub) Update(ctx context.Context, m *model.Machine) error {
	if s.UpdateFn != nil {
		if err := s.UpdateFn(ctx, m); err != nil {
			return err
		}
	}
	if _, ok := s.Machines[m.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	s.Updates = append(s.Updates, m.Clone())
	s.Machines[m.ID] = m.Clone()
	return nil
}

// OrderRepositoryStub keeps orders in a map.
type OrderRepositoryStub struct {
	Orders  map[string]*model.Order
	Saved   []*model.Order
	Updated []*model.Order
	FindFn  func(context.Context, string, string, time.Time) (*model.Order, error)
	SaveErr error
}

// NewOrderRepositoryStub seeds the stub with copies of orders.
func NewOrderRepositoryStub(orders ...*model.Order) *OrderRepositoryStub {
	s := &OrderRepositoryStub{Orders: make(map[string]*model.Order)}
	for _, o := range orders {
		s.Orders[o.ID] = o.Clone()
	}
	return s
}

// Save stores a new order.
func (s *OrderRepositoryStub) Save(ctx context.Context, o *model.Order) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Orders == nil {
		s.Orders = make(map[string]*model.Order)
	}
	if _, ok := s.Orders[o.ID]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.Saved = append(s.Saved, o.Clone())
	s.Orders[o.ID] = o.Clone()
	return nil
}

// Update replaces a stored order.
func (s *OrderRepositoryStub) Update(ctx context.Context, o *model.Order) error {
	if _, ok := s.Orders[o.ID]; !ok {
		return domainErrors.ErrNotFound
	}
	s.Updated = append(s.Updated, o.Clone())
	s.Orders[o.ID] = o.Clone()
	return nil
}

// FindByIDAndMachineID matches machine and creation month like the real repositories.
func (s *OrderRepositoryStub) FindByIDAndMachineID(ctx context.Context, orderID, machineID string, createdAt time.Time) (*model.Order, error) {
	if s.FindFn != nil {
		return s.FindFn(ctx, orderID, machineID, createdAt)
	}
	o, ok := s.Orders[orderID]
	if !ok || o.MachineID != machineID || !o.InPeriod(createdAt) {
		return nil, domainErrors.ErrNotFound
	}
	return o.Clone(), nil
}

// PaymentRepositoryStub records saved payments.
type PaymentRepositoryStub struct {
	Saved []*model.Payment
	Err   error
}

// Save records the payment or returns the configured error.
func (s *PaymentRepositoryStub) Save(ctx context.Context, p *model.Payment) error {
	if s.Err != nil {
		return s.Err
	}
	s.Saved = append(s.Saved, p.Clone())
	return nil
}

// OwnerRepositoryStub keeps owners in a map.
type OwnerRepositoryStub struct {
	Owners map[string]*model.Owner
	Err    error
}

// NewOwnerRepositoryStub seeds the stub with owners.
func NewOwnerRepositoryStub(owners ...*model.Owner) *OwnerRepositoryStub {
	s := &OwnerRepositoryStub{Owners: make(map[string]*model.Owner)}
	for _, o := range owners {
		owner := *o
		s.Owners[o.ID] = &owner
	}
	return s
}

// Save stores a new owner unless id or email is taken.
func (s *OwnerRepositoryStub) Save(ctx context.Context, o *model.Owner) error {
	if s.Err != nil {
		return s.Err
	}
	if s.Owners == nil {
		s.Owners = make(map[string]*model.Owner)
	}
	for _, existing := range s.Owners {
		if existing.ID == o.ID || strings.EqualFold(existing.Email, o.Email) {
			return domainErrors.ErrAlreadyExists
		}
	}
	owner := *o
	s.Owners[o.ID] = &owner
	return nil
}

// FindByID fetches owner by identifier.
func (s *OwnerRepositoryStub) FindByID(ctx context.Context, id string) (*model.Owner, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if o, ok := s.Owners[id]; ok {
		owner := *o
		return &owner, nil
	}
	return nil, domainErrors.ErrNotFound
}

// FindByEmail fetches owner by email, ignoring case.
func (s *OwnerRepositoryStub) FindByEmail(ctx context.Context, email string) (*model.Owner, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, o := range s.Owners {
		if strings.EqualFold(o.Email, email) {
			owner := *o
			return &owner, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// FactoryStub hands out the configured stubs.
type FactoryStub struct {
	MachineRepo *MachineRepositoryStub
	OrderRepo   *OrderRepositoryStub
	PaymentRepo *PaymentRepositoryStub
	OwnerRepo   *OwnerRepositoryStub
}

func (f FactoryStub) Machines() repository.MachineRepository { return f.MachineRepo }
func (f FactoryStub) Orders() repository.OrderRepository { return f.OrderRepo }
func (f FactoryStub) Payments() repository.PaymentRepository { return f.PaymentRepo }
func (f FactoryStub) Owners() repository.OwnerRepository { return f.OwnerRepo }

// TransactorStub runs fn against Repos without any isolation.
type TransactorStub struct {
	Repos repository.Factory
	Err   error
	Calls int
}

// Atomically invokes fn unless Err is configured.
func (s *TransactorStub) Atomically(ctx context.Context, fn func(context.Context, repository.Factory) error) error {
	s.Calls++
	if s.Err != nil {
		return s.Err
	}
	return fn(ctx, s.Repos)
}

var (
	_ repository.MachineRepository = (*MachineRepositoryStub)(nil)
	_ repository.OrderRepository   = (*OrderRepositoryStub)(nil)
	_ repository.PaymentRepository = (*PaymentRepositoryStub)(nil)
	_ repository.OwnerRepository   = (*OwnerRepositoryStub)(nil)
	_ repository.Factory           = FactoryStub{}
	_ repository.Transactor        = (*TransactorStub)(nil)
)
