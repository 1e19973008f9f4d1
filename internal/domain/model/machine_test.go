package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

const (
	testMachineID = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f001"
	testOwnerID   = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f002"
	testProductID = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f003"
	testOrderID   = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f004"
	testItemID    = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f005"
	testPaymentID = "0b5f3c58-3f0a-4d43-9d36-7cf4b2e1f006"
)

func newTestMachine(t *testing.T, state MachineState, coins Coins, qty int) *Machine {
	t.Helper()
	m, err := NewMachine(testMachineID, testOwnerID, state, coins, []Product{
		{ID: testProductID, Name: "Cola", Code: "A1", Quantity: qty, UnitPrice: 150},
	})
	require.NoError(t, err)
	return m
}

func TestNewMachineValidation(t *testing.T) {
	_, err := NewMachine("bad", testOwnerID, MachineStateReady, Coins{}, nil)
	require.ErrorIs(t, err, domainErrors.ErrInvalidID)

	_, err = NewMachine(testMachineID, testOwnerID, MachineState("BROKEN"), Coins{}, nil)
	require.Error(t, err)

	_, err = NewMachine(testMachineID, testOwnerID, MachineStateReady, Coins{0, -1}, nil)
	require.ErrorIs(t, err, domainErrors.ErrNegativeQuantity)

	_, err = NewMachine(testMachineID, testOwnerID, MachineStateReady, Coins{}, []Product{
		{ID: testProductID, Code: "A1", Quantity: -1},
	})
	require.ErrorIs(t, err, domainErrors.ErrNegativeQuantity)

	_, err = NewMachine(testMachineID, testOwnerID, MachineStateReady, Coins{}, []Product{
		{ID: testProductID, Code: "A1"},
		{ID: testItemID, Code: "A1"},
	})
	require.Error(t, err)
}

func TestMachineStateTransitions(t *testing.T) {
	m := newTestMachine(t, MachineStateReady, Coins{}, 1)
	require.NoError(t, m.EnsureReady())
	require.ErrorIs(t, m.EnsureDispensing(), domainErrors.ErrMachineNotDispensing)

	m.StartDispense()
	assert.Equal(t, MachineStateDispensing, m.State)
	require.ErrorIs(t, m.EnsureReady(), domainErrors.ErrMachineNotReady)
	require.NoError(t, m.EnsureDispensing())

	m.FinishDispense()
	assert.Equal(t, MachineStateReady, m.State)
}

func TestMachineProductLookup(t *testing.T) {
	m := newTestMachine(t, MachineStateReady, Coins{}, 2)

	p, err := m.ProductByCode("A1")
	require.NoError(t, err)
	assert.Equal(t, testProductID, p.ID)

	_, err = m.ProductByCode("Z9")
	require.ErrorIs(t, err, domainErrors.ErrProductNotFound)

	_, err = m.AvailableProduct(testProductID, 2)
	require.NoError(t, err)

	_, err = m.AvailableProduct(testProductID, 3)
	require.ErrorIs(t, err, domainErrors.ErrProductUnavailable)

	_, err = m.AvailableProduct(testItemID, 1)
	require.ErrorIs(t, err, domainErrors.ErrProductNotFound)
}

func TestMachineMakeChangeKeepsLedgerOnFailure(t *testing.T) {
	m := newTestMachine(t, MachineStateReady, Coins{0, 0, 0, 0, 0, 1}, 1)

	_, err := m.MakeChange(50)
	require.ErrorIs(t, err, domainErrors.ErrChangeUnavailable)
	assert.Equal(t, Coins{0, 0, 0, 0, 0, 1}, m.Coins)

	require.NoError(t, m.AddCoins(Coins{0, 0, 0, 0, 1, 0}))
	change, err := m.MakeChange(50)
	require.NoError(t, err)
	assert.Equal(t, Coins{0, 0, 0, 0, 1, 0}, change)
	assert.Equal(t, Coins{0, 0, 0, 0, 0, 1}, m.Coins)
}

func TestMachineCloneIsIndependent(t *testing.T) {
	m := newTestMachine(t, MachineStateReady, Coins{1}, 3)
	c := m.Clone()
	require.NoError(t, c.Products[0].Reduce(1))
	require.NoError(t, c.SubtractCoins(Coins{1}))

	assert.Equal(t, 3, m.Products[0].Quantity)
	assert.Equal(t, Coins{1}, m.Coins)
}

func TestProductReduce(t *testing.T) {
	p, err := NewProduct(testProductID, "Water", "B2", 3, 40)
	require.NoError(t, err)

	require.ErrorIs(t, p.Reduce(0), domainErrors.ErrInvalidQuantity)
	require.ErrorIs(t, p.Reduce(4), domainErrors.ErrProductUnavailable)
	require.NoError(t, p.Reduce(3))
	assert.Equal(t, 0, p.Quantity)
	assert.False(t, p.Available(1))

	_, err = NewProduct(testProductID, "Water", "B2", -1, 40)
	require.ErrorIs(t, err, domainErrors.ErrNegativeQuantity)
	_, err = NewProduct(testProductID, "Water", "B2", 1, -40)
	require.ErrorIs(t, err, domainErrors.ErrInvalidPrice)
}
