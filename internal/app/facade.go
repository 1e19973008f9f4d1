package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
	"github.com/polkiloo/vendingmachine/internal/usecase"
)

// Stage is a step of the purchase workflow.
type Stage string

const (
	StageStart           Stage = "START"
	StageCoinsAdded      Stage = "COINS_ADDED"
	StageOrderCreated    Stage = "ORDER_CREATED"
	StagePaid            Stage = "PAID"
	StageDispenseAllowed Stage = "DISPENSE_ALLOWED"
	StageDelivered       Stage = "DELIVERED"
	StageFinished        Stage = "FINISHED"
	StageAborted         Stage = "ABORTED"
)

// PurchaseRequest describes coins inserted to buy Quantity units of a product.
type PurchaseRequest struct {
	MachineID   string
	ProductID   string
	Quantity    int
	PaymentType string
	Coins       model.Coins
	RequestTime time.Time
}

// PurchaseReceipt is returned for a committed purchase.
type PurchaseReceipt struct {
	OrderID    string
	PaymentID  string
	Change     model.Coins
	AmountPaid int
}

// PurchaseError reports an aborted purchase. Stage is the last step that completed before
// the failure; Coins are the coins the customer inserted and must get back.
type PurchaseError struct {
	Stage Stage
	Coins model.Coins
	Err   error
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase %s after %s: %v", StageAborted, e.Stage, e.Err)
}

func (e *PurchaseError) Unwrap() error {
	return e.Err
}

// HealthChecker reports storage availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// VendingFacade runs machine operations, each inside one transaction.
type VendingFacade struct {
	tx       repository.Transactor
	services *usecase.Builder
	health   HealthChecker
	logger   *slog.Logger
}

func NewVendingFacade(tx repository.Transactor, services *usecase.Builder, health HealthChecker, logger *slog.Logger) *VendingFacade {
	return &VendingFacade{tx: tx, services: services, health: health, logger: logger}
}

func (f *VendingFacade) ChooseProduct(ctx context.Context, machineID, code string) (*usecase.ChosenProduct, error) {
	var chosen *usecase.ChosenProduct
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		var err error
		chosen, err = f.services.Bind(repos).Machines.ChooseProduct(ctx, machineID, code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return chosen, nil
}

// PayForProduct runs the whole purchase: coins, order, payment, dispense. Either every
// step is committed or none is.
func (f *VendingFacade) PayForProduct(ctx context.Context, req PurchaseRequest) (*PurchaseReceipt, error) {
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.RequestTime.IsZero() {
		req.RequestTime = f.services.Now()
	}

	stage := StageStart
	var receipt *PurchaseReceipt
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		s := f.services.Bind(repos)

		added, err := s.Machines.AddCoins(ctx, req.MachineID, req.ProductID, req.Quantity, req.Coins)
		if err != nil {
			return err
		}
		stage = StageCoinsAdded

		order, err := s.Orders.Create(ctx, req.MachineID, req.ProductID, req.Quantity, req.RequestTime)
		if err != nil {
			return err
		}
		stage = StageOrderCreated

		payment, err := s.Payments.PayForProduct(ctx, order.ID, req.MachineID, added.AmountPaid, req.PaymentType, order.CreatedAt)
		if err != nil {
			return err
		}
		stage = StagePaid

		if err := s.Machines.AllowDispense(ctx, req.MachineID); err != nil {
			return err
		}
		stage = StageDispenseAllowed

		if _, err := s.Machines.DeliverProduct(ctx, req.MachineID, req.ProductID, req.Quantity); err != nil {
			return err
		}
		if _, err := s.Orders.Deliver(ctx, order.ID, req.MachineID, order.CreatedAt); err != nil {
			return err
		}
		stage = StageDelivered

		if err := s.Machines.FinishDispense(ctx, req.MachineID); err != nil {
			return err
		}
		stage = StageFinished

		receipt = &PurchaseReceipt{
			OrderID:    order.ID,
			PaymentID:  payment.ID,
			Change:     added.Change,
			AmountPaid: added.AmountPaid,
		}
		return nil
	})
	if err != nil {
		f.logger.Warn("purchase aborted",
			slog.String("machine", req.MachineID),
			slog.String("product", req.ProductID),
			slog.String("stage", string(stage)),
			slog.String("error", err.Error()),
		)
		return nil, &PurchaseError{Stage: stage, Coins: req.Coins, Err: err}
	}

	f.logger.Info("purchase completed",
		slog.String("machine", req.MachineID),
		slog.String("product", req.ProductID),
		slog.String("order", receipt.OrderID),
		slog.Int("amount_paid", receipt.AmountPaid),
	)
	return receipt, nil
}

func (f *VendingFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	var token string
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		var err error
		_, token, err = f.services.Bind(repos).Operators.Authenticate(ctx, email, password)
		return err
	})
	return token, err
}

// Register stores a new owner and signs them in.
func (f *VendingFacade) Register(ctx context.Context, fullName, email, password string) (string, error) {
	var ownerID string
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		owner, err := f.services.Bind(repos).Operators.Register(ctx, f.services.NewID(), fullName, email, password)
		if err != nil {
			return err
		}
		ownerID = owner.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	f.logger.Info("owner registered", slog.String("owner", ownerID))
	return f.services.IssueToken(ownerID)
}

func (f *VendingFacade) ParseToken(token string) (string, error) {
	return f.services.ParseToken(token)
}

// Machine returns the machine of ownerID with its ledger and stock.
func (f *VendingFacade) Machine(ctx context.Context, ownerID, machineID string) (*model.Machine, error) {
	var machine *model.Machine
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		var err error
		machine, err = f.services.Bind(repos).Operators.OwnedMachine(ctx, ownerID, machineID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}

// Order returns an order of a machine owned by ownerID.
func (f *VendingFacade) Order(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	return f.ownedOrder(ctx, ownerID, machineID, func(ctx context.Context, orders *usecase.OrderUseCase) (*model.Order, error) {
		return orders.Find(ctx, orderID, machineID, createdAt)
	})
}

func (f *VendingFacade) DeliverOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	return f.ownedOrder(ctx, ownerID, machineID, func(ctx context.Context, orders *usecase.OrderUseCase) (*model.Order, error) {
		return orders.Deliver(ctx, orderID, machineID, createdAt)
	})
}

func (f *VendingFacade) CancelOrder(ctx context.Context, ownerID, machineID, orderID string, createdAt time.Time) (*model.Order, error) {
	return f.ownedOrder(ctx, ownerID, machineID, func(ctx context.Context, orders *usecase.OrderUseCase) (*model.Order, error) {
		return orders.Cancel(ctx, orderID, machineID, createdAt)
	})
}

// ownedOrder runs fn on the orders of machineID once the machine is known to belong to ownerID.
func (f *VendingFacade) ownedOrder(ctx context.Context, ownerID, machineID string, fn func(context.Context, *usecase.OrderUseCase) (*model.Order, error)) (*model.Order, error) {
	var order *model.Order
	err := f.tx.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		s := f.services.Bind(repos)
		if _, err := s.Operators.OwnedMachine(ctx, ownerID, machineID); err != nil {
			return err
		}
		var err error
		order, err = fn(ctx, s.Orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (f *VendingFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
