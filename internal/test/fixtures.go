package test

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

// Identifiers shared by fixtures.
const (
	MachineID      = "6f1c2d3e-4a5b-4c6d-8e7f-000000000001"
	OwnerID        = "6f1c2d3e-4a5b-4c6d-8e7f-000000000002"
	OtherOwnerID   = "6f1c2d3e-4a5b-4c6d-8e7f-000000000003"
	ColaID         = "6f1c2d3e-4a5b-4c6d-8e7f-000000000010"
	WaterID        = "6f1c2d3e-4a5b-4c6d-8e7f-000000000011"
	OwnerEmail     = "operator@example.com"
	OwnerPassword  = "s3cret"
	ColaCode       = "A1"
	WaterCode      = "B2"
	ColaPrice      = 150
	WaterPrice     = 100
	UnknownMachine = "6f1c2d3e-4a5b-4c6d-8e7f-0000000000ff"
)

// PurchaseTime is a fixed moment used as request time in tests.
var PurchaseTime = time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC)

// NewMachine builds a READY machine of OwnerID stocking cola and water.
func NewMachine(ledger model.Coins, colaQty, waterQty int) *model.Machine {
	m, err := model.NewMachine(MachineID, OwnerID, model.MachineStateReady, ledger, []model.Product{
		{ID: ColaID, Name: "Cola", Code: ColaCode, Quantity: colaQty, UnitPrice: ColaPrice},
		{ID: WaterID, Name: "Water", Code: WaterCode, Quantity: waterQty, UnitPrice: WaterPrice},
	})
	if err != nil {
		panic(err)
	}
	return m
}

// NewOwner builds the fixture owner with a password hashed by HasherStub.
func NewOwner() *model.Owner {
	o, err := model.NewOwner(OwnerID, "Olga Operator", OwnerEmail, "hash:"+OwnerPassword)
	if err != nil {
		panic(err)
	}
	return o
}

// SequentialIDs returns a generator of predictable UUIDs.
func SequentialIDs() func() string {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", n.Add(1))
	}
}

// FixedClock always reports at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
