package handlers

import (
	"context"
	"time"

	"github.com/polkiloo/vendingmachine/internal/app"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/usecase"
)

// MachineFacade covers the customer facing purchase operations.
type MachineFacade interface {
	ChooseProduct(ctx context.Context, machineID, code string) (*usecase.ChosenProduct, error)
	PayForProduct(ctx context.Context, req app.PurchaseRequest) (*app.PurchaseReceipt, error)
}

// OperatorFacade provides operations for authenticated machine owners.
type OperatorFacade interface {
	Register(ctx context.Context, fullName, email, password string) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (string, error)
	Machine(ctx context.Context, ownerID, machineID string) (*model.Machine, error)
	Order(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error)
	DeliverOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error)
	CancelOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error)
}

type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// VendingFacade aggregates the full set of operations used across handlers.
type VendingFacade interface {
	MachineFacade
	OperatorFacade
	HealthFacade
}

var _ VendingFacade = (*app.VendingFacade)(nil)
