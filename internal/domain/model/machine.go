package model

import (
	"fmt"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// MachineState describes dispensing lifecycle of a machine.
type MachineState string

const (
	MachineStateReady      MachineState = "READY"
	MachineStateDispensing MachineState = "DISPENSING"
)

// ParseMachineState converts stored state into MachineState.
func ParseMachineState(s string) (MachineState, error) {
	switch MachineState(s) {
	case MachineStateReady, MachineStateDispensing:
		return MachineState(s), nil
	default:
		return "", fmt.Errorf("unknown machine state %q", s)
	}
}

// Machine is a vending machine with its coin ledger and product stock.
// Mutate it through its methods only.
type Machine struct {
	ID       string
	OwnerID  string
	State    MachineState
	Coins    Coins
	Products []Product
}

// NewMachine validates and assembles a machine.
func NewMachine(id, ownerID string, state MachineState, coins Coins, products []Product) (*Machine, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateID(ownerID); err != nil {
		return nil, err
	}
	if _, err := ParseMachineState(string(state)); err != nil {
		return nil, err
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}

	codes := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.Quantity < 0 {
			return nil, fmt.Errorf("%w: product %s", domainErrors.ErrNegativeQuantity, p.ID)
		}
		if _, dup := codes[p.Code]; dup {
			return nil, fmt.Errorf("duplicate product code %q in machine %s", p.Code, id)
		}
		codes[p.Code] = struct{}{}
	}

	return &Machine{
		ID:       id,
		OwnerID:  ownerID,
		State:    state,
		Coins:    coins,
		Products: append([]Product(nil), products...),
	}, nil
}

// Clone returns a deep copy of the machine.
func (m *Machine) Clone() *Machine {
	c := *m
	c.Products = append([]Product(nil), m.Products...)
	return &c
}

// EnsureReady fails unless the machine accepts new purchases.
func (m *Machine) EnsureReady() error {
	if m.State != MachineStateReady {
		return domainErrors.ErrMachineNotReady
	}
	return nil
}

// EnsureDispensing fails unless the machine is dispensing.
func (m *Machine) EnsureDispensing() error {
	if m.State != MachineStateDispensing {
		return domainErrors.ErrMachineNotDispensing
	}
	return nil
}

// ProductByCode finds a product by the code typed by the customer.
func (m *Machine) ProductByCode(code string) (*Product, error) {
	for i := range m.Products {
		if m.Products[i].Code == code {
			return &m.Products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: code %q", domainErrors.ErrProductNotFound, code)
}

// ProductByID finds a stocked product by identifier.
func (m *Machine) ProductByID(id string) (*Product, error) {
	for i := range m.Products {
		if m.Products[i].ID == id {
			return &m.Products[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domainErrors.ErrProductNotFound, id)
}

// AvailableProduct finds a product by id that has at least qty units in stock.
func (m *Machine) AvailableProduct(id string, qty int) (*Product, error) {
	product, err := m.ProductByID(id)
	if err != nil {
		return nil, err
	}
	if !product.Available(qty) {
		return nil, fmt.Errorf("%w: %q", domainErrors.ErrProductUnavailable, id)
	}
	return product, nil
}

// AddCoins credits the ledger with inserted coins.
func (m *Machine) AddCoins(coins Coins) error {
	ledger, err := m.Coins.Add(coins)
	if err != nil {
		return err
	}
	m.Coins = ledger
	return nil
}

// SubtractCoins debits the ledger.
func (m *Machine) SubtractCoins(coins Coins) error {
	ledger, err := m.Coins.Subtract(coins)
	if err != nil {
		return err
	}
	m.Coins = ledger
	return nil
}

// MakeChange takes coins worth amount out of the ledger. The ledger is unchanged on failure.
func (m *Machine) MakeChange(amount int) (Coins, error) {
	change, rest, err := m.Coins.MakeChange(amount)
	if err != nil {
		return Coins{}, err
	}
	m.Coins = rest
	return change, nil
}

// StartDispense switches the machine into DISPENSING.
func (m *Machine) StartDispense() {
	m.State = MachineStateDispensing
}

// FinishDispense returns the machine to READY.
func (m *Machine) FinishDispense() {
	m.State = MachineStateReady
}
