// Package facadetest provides controllable facades for HTTP layer tests.
package facadetest

import (
	"context"
	"time"

	"github.com/polkiloo/vendingmachine/internal/app"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	testhelpers "github.com/polkiloo/vendingmachine/internal/test"
	"github.com/polkiloo/vendingmachine/internal/usecase"
)

// MachineFacadeStub provides controllable behaviour for purchase endpoints.
type MachineFacadeStub struct {
	ChooseFn func(context.Context, string, string) (*usecase.ChosenProduct, error)
	PayFn    func(context.Context, app.PurchaseRequest) (*app.PurchaseReceipt, error)
}

// ChooseProduct delegates to provided function or returns cola.
func (s MachineFacadeStub) ChooseProduct(ctx context.Context, machineID, code string) (*usecase.ChosenProduct, error) {
	if s.ChooseFn != nil {
		return s.ChooseFn(ctx, machineID, code)
	}
	return &usecase.ChosenProduct{ProductID: testhelpers.ColaID, Price: testhelpers.ColaPrice, Name: "Cola"}, nil
}

// PayForProduct delegates to provided function or charges the cola price without change.
func (s MachineFacadeStub) PayForProduct(ctx context.Context, req app.PurchaseRequest) (*app.PurchaseReceipt, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, req)
	}
	return &app.PurchaseReceipt{AmountPaid: testhelpers.ColaPrice}, nil
}

// OperatorFacadeStub simulates operator operations.
type OperatorFacadeStub struct {
	testhelpers.TokenParserStub

	RegisterFn     func(context.Context, string, string, string) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	MachineFn      func(context.Context, string, string) (*model.Machine, error)
	OrderFn        func(context.Context, string, string, string, time.Time) (*model.Order, error)
	DeliverFn      func(context.Context, string, string, string, time.Time) (*model.Order, error)
	CancelFn       func(context.Context, string, string, string, time.Time) (*model.Order, error)
}

// Register returns a fixed token unless overridden.
func (s OperatorFacadeStub) Register(ctx context.Context, fullName, email, password string) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, fullName, email, password)
	}
	return "token", nil
}

// Authenticate returns a fixed token unless overridden.
func (s OperatorFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

// Machine returns a default machine stocked with cola and water.
func (s OperatorFacadeStub) Machine(ctx context.Context, ownerID, machineID string) (*model.Machine, error) {
	if s.MachineFn != nil {
		return s.MachineFn(ctx, ownerID, machineID)
	}
	return testhelpers.NewMachine(model.Coins{}, 1, 1), nil
}

// Order returns a pending order unless overridden.
func (s OperatorFacadeStub) Order(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, ownerID, machineID, orderID, createdAt)
	}
	return orderWithStatus(orderID, machineID, model.OrderStatusPending, createdAt), nil
}

func (s OperatorFacadeStub) DeliverOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	if s.DeliverFn != nil {
		return s.DeliverFn(ctx, ownerID, machineID, orderID, createdAt)
	}
	return orderWithStatus(orderID, machineID, model.OrderStatusDelivered, createdAt), nil
}

func (s OperatorFacadeStub) CancelOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, ownerID, machineID, orderID, createdAt)
	}
	return orderWithStatus(orderID, machineID, model.OrderStatusCanceled, createdAt), nil
}

func orderWithStatus(orderID, machineID string, status model.OrderStatus, createdAt time.Time) *model.Order {
	return &model.Order{ID: orderID, MachineID: machineID, Status: status, CreatedAt: createdAt, UpdatedAt: createdAt}
}

// HealthFacadeStub reports Err from every health check.
type HealthFacadeStub struct {
	Err error
}

func (s HealthFacadeStub) HealthCheck(context.Context) error {
	return s.Err
}

// VendingFacadeStub combines all facade stubs for router tests.
type VendingFacadeStub struct {
	MachineFacadeStub
	OperatorFacadeStub
	HealthFacadeStub
}
