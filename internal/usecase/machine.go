package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

// ChosenProduct is what the customer sees after typing a product code.
type ChosenProduct struct {
	ProductID string
	Price     int
	Name      string
}

// CoinsAdded is the outcome of crediting inserted coins.
type CoinsAdded struct {
	Change     model.Coins
	AmountPaid int
}

// DeliveredProduct identifies the product that left the machine.
type DeliveredProduct struct {
	ProductID   string
	ProductCode string
}

// MachineUseCase drives the machine through a purchase.
type MachineUseCase struct {
	machines repository.MachineRepository
}

// NewMachineUseCase constructs MachineUseCase.
func NewMachineUseCase(machines repository.MachineRepository) *MachineUseCase {
	return &MachineUseCase{machines: machines}
}

// Machine loads a registered machine.
func (u *MachineUseCase) Machine(ctx context.Context, machineID string) (*model.Machine, error) {
	return loadMachine(ctx, u.machines, machineID)
}

// ChooseProduct looks a product up by code without changing anything.
func (u *MachineUseCase) ChooseProduct(ctx context.Context, machineID, code string) (*ChosenProduct, error) {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return nil, err
	}
	if err := machine.EnsureReady(); err != nil {
		return nil, err
	}
	product, err := machine.ProductByCode(code)
	if err != nil {
		return nil, err
	}
	if !product.Available(1) {
		return nil, fmt.Errorf("%w: code %q", domainErrors.ErrProductUnavailable, code)
	}
	return &ChosenProduct{ProductID: product.ID, Price: product.UnitPrice, Name: product.Name}, nil
}

// AddCoins credits inserted coins for qty units of a product and takes the change out of
// the ledger.
func (u *MachineUseCase) AddCoins(ctx context.Context, machineID, productID string, qty int, coins model.Coins) (*CoinsAdded, error) {
	if qty <= 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}

	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return nil, err
	}
	if err := machine.EnsureReady(); err != nil {
		return nil, err
	}
	product, err := machine.AvailableProduct(productID, qty)
	if err != nil {
		return nil, err
	}

	price := product.UnitPrice * qty
	tendered := coins.Total()
	if tendered < price {
		return nil, fmt.Errorf("%w: tendered %d, price %d", domainErrors.ErrNegativeChange, tendered, price)
	}

	if err := machine.AddCoins(coins); err != nil {
		return nil, err
	}
	change, err := machine.MakeChange(tendered - price)
	if err != nil {
		return nil, err
	}
	if err := updateMachine(ctx, u.machines, machine); err != nil {
		return nil, err
	}
	return &CoinsAdded{Change: change, AmountPaid: price}, nil
}

// AllowDispense switches the machine into DISPENSING.
func (u *MachineUseCase) AllowDispense(ctx context.Context, machineID string) error {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return err
	}
	machine.StartDispense()
	return updateMachine(ctx, u.machines, machine)
}

// DeliverProduct takes exactly qty units of a product out of stock.
func (u *MachineUseCase) DeliverProduct(ctx context.Context, machineID, productID string, qty int) (*DeliveredProduct, error) {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return nil, err
	}
	if err := machine.EnsureDispensing(); err != nil {
		return nil, err
	}
	product, err := machine.ProductByID(productID)
	if err != nil {
		return nil, err
	}
	if err := product.Reduce(qty); err != nil {
		return nil, err
	}
	if err := updateMachine(ctx, u.machines, machine); err != nil {
		return nil, err
	}
	return &DeliveredProduct{ProductID: product.ID, ProductCode: product.Code}, nil
}

// FinishDispense returns the machine to READY.
func (u *MachineUseCase) FinishDispense(ctx context.Context, machineID string) error {
	machine, err := loadMachine(ctx, u.machines, machineID)
	if err != nil {
		return err
	}
	machine.FinishDispense()
	return updateMachine(ctx, u.machines, machine)
}

func loadMachine(ctx context.Context, machines repository.MachineRepository, id string) (*model.Machine, error) {
	machine, err := machines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrUnregisteredMachine, id)
		}
		return nil, err
	}
	return machine, nil
}

func updateMachine(ctx context.Context, machines repository.MachineRepository, machine *model.Machine) error {
	if err := machines.Update(ctx, machine); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return fmt.Errorf("%w: %s", domainErrors.ErrUnregisteredMachine, machine.ID)
		}
		return err
	}
	return nil
}
