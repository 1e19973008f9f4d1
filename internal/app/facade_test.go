package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
	"github.com/polkiloo/vendingmachine/internal/storage/memory"
	testhelpers "github.com/polkiloo/vendingmachine/internal/test"
	"github.com/polkiloo/vendingmachine/internal/usecase"
)

func newMemoryFacade(t *testing.T, ledger model.Coins, colaQty, waterQty int) (*VendingFacade, *memory.Store) {
	t.Helper()
	store, err := memory.New()
	require.NoError(t, err)

	err = store.Atomically(context.Background(), func(ctx context.Context, repos repository.Factory) error {
		if err := repos.Owners().Save(ctx, testhelpers.NewOwner()); err != nil {
			return err
		}
		return repos.Machines().Save(ctx, testhelpers.NewMachine(ledger, colaQty, waterQty))
	})
	require.NoError(t, err)

	services := usecase.NewBuilder(testhelpers.HasherStub{}, testhelpers.StrategyStub{},
		usecase.WithClock(testhelpers.FixedClock(testhelpers.PurchaseTime)))
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewVendingFacade(store, services, store, logger), store
}

func colaPurchase(coins model.Coins) PurchaseRequest {
	return PurchaseRequest{
		MachineID:   testhelpers.MachineID,
		ProductID:   testhelpers.ColaID,
		Quantity:    1,
		PaymentType: "CASH",
		Coins:       coins,
		RequestTime: testhelpers.PurchaseTime,
	}
}

func TestChooseProduct(t *testing.T) {
	facade, _ := newMemoryFacade(t, model.Coins{}, 2, 0)
	ctx := context.Background()

	chosen, err := facade.ChooseProduct(ctx, testhelpers.MachineID, testhelpers.ColaCode)
	require.NoError(t, err)
	assert.Equal(t, &usecase.ChosenProduct{ProductID: testhelpers.ColaID, Price: testhelpers.ColaPrice, Name: "Cola"}, chosen)

	again, err := facade.ChooseProduct(ctx, testhelpers.MachineID, testhelpers.ColaCode)
	require.NoError(t, err)
	assert.Equal(t, chosen, again)

	_, err = facade.ChooseProduct(ctx, testhelpers.MachineID, testhelpers.WaterCode)
	require.ErrorIs(t, err, domainErrors.ErrProductUnavailable)

	_, err = facade.ChooseProduct(ctx, testhelpers.UnknownMachine, testhelpers.ColaCode)
	require.ErrorIs(t, err, domainErrors.ErrUnregisteredMachine)
}

func TestPayForProductExactAmount(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 2, 0)

	receipt, err := facade.PayForProduct(context.Background(), colaPurchase(model.Coins{0, 0, 0, 0, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, model.Coins{}, receipt.Change)
	assert.Equal(t, 150, receipt.AmountPaid)

	machine, err := store.Machine(testhelpers.MachineID)
	require.NoError(t, err)
	assert.Equal(t, model.MachineStateReady, machine.State)
	assert.Equal(t, model.Coins{0, 0, 0, 0, 1, 1}, machine.Coins)
	cola, err := machine.ProductByID(testhelpers.ColaID)
	require.NoError(t, err)
	assert.Equal(t, 1, cola.Quantity)

	order, err := store.Order(receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
	assert.True(t, order.CreatedAt.Equal(testhelpers.PurchaseTime))

	payments, err := store.PaymentsForOrder(receipt.OrderID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, receipt.PaymentID, payments[0].ID)
	assert.Equal(t, 150, payments[0].Amount)
	assert.Equal(t, 0, payments[0].Change())
}

func TestPayForProductReturnsChange(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{0, 0, 0, 0, 1, 0}, 2, 0)

	receipt, err := facade.PayForProduct(context.Background(), colaPurchase(model.Coins{0, 0, 0, 0, 0, 2}))
	require.NoError(t, err)
	assert.Equal(t, model.Coins{0, 0, 0, 0, 1, 0}, receipt.Change)
	assert.Equal(t, 150, receipt.AmountPaid)

	machine, err := store.Machine(testhelpers.MachineID)
	require.NoError(t, err)
	assert.Equal(t, model.Coins{0, 0, 0, 0, 0, 2}, machine.Coins)
}

func TestPayForProductMultipleUnits(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 3, 0)
	req := colaPurchase(model.Coins{0, 0, 0, 0, 0, 3})
	req.Quantity = 2

	receipt, err := facade.PayForProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 300, receipt.AmountPaid)

	machine, err := store.Machine(testhelpers.MachineID)
	require.NoError(t, err)
	cola, err := machine.ProductByID(testhelpers.ColaID)
	require.NoError(t, err)
	assert.Equal(t, 1, cola.Quantity)
}

func TestPayForProductRollsBack(t *testing.T) {
	ledger := model.Coins{0, 0, 0, 0, 0, 1}
	tests := []struct {
		name      string
		req       PurchaseRequest
		wantErr   error
		wantStage Stage
	}{
		{
			name:      "not enough coins",
			req:       colaPurchase(model.Coins{0, 0, 0, 0, 1, 0}),
			wantErr:   domainErrors.ErrNegativeChange,
			wantStage: StageStart,
		},
		{
			name:      "change unavailable",
			req:       colaPurchase(model.Coins{0, 0, 0, 0, 0, 2}),
			wantErr:   domainErrors.ErrChangeUnavailable,
			wantStage: StageStart,
		},
		{
			name: "unsupported payment type",
			req: func() PurchaseRequest {
				r := colaPurchase(model.Coins{0, 0, 0, 0, 1, 1})
				r.PaymentType = "CARD"
				return r
			}(),
			wantErr:   domainErrors.ErrInvalidPaymentType,
			wantStage: StageOrderCreated,
		},
		{
			name:      "oversized coin count",
			req:       colaPurchase(model.Coins{0, 0, 0, 0, 0, 1 << 62}),
			wantErr:   domainErrors.ErrTooManyCoins,
			wantStage: StageStart,
		},
		{
			name: "unknown machine",
			req: func() PurchaseRequest {
				r := colaPurchase(model.Coins{0, 0, 0, 0, 1, 1})
				r.MachineID = testhelpers.UnknownMachine
				return r
			}(),
			wantErr:   domainErrors.ErrUnregisteredMachine,
			wantStage: StageStart,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facade, store := newMemoryFacade(t, ledger, 2, 0)

			_, err := facade.PayForProduct(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)

			var perr *PurchaseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.wantStage, perr.Stage)
			assert.Equal(t, tt.req.Coins, perr.Coins)

			machine, err := store.Machine(testhelpers.MachineID)
			require.NoError(t, err)
			assert.Equal(t, ledger, machine.Coins)
			assert.Equal(t, model.MachineStateReady, machine.State)
			cola, err := machine.ProductByID(testhelpers.ColaID)
			require.NoError(t, err)
			assert.Equal(t, 2, cola.Quantity)
		})
	}
}

func TestPayForProductDefaultsQuantityAndTime(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 1, 0)
	req := colaPurchase(model.Coins{0, 0, 0, 0, 1, 1})
	req.Quantity = 0
	req.RequestTime = time.Time{}

	receipt, err := facade.PayForProduct(context.Background(), req)
	require.NoError(t, err)

	order, err := store.Order(receipt.OrderID)
	require.NoError(t, err)
	assert.True(t, order.CreatedAt.Equal(testhelpers.PurchaseTime))
	assert.Equal(t, 1, order.Items[0].Quantity)
}

func TestConcurrentPurchasesOfLastUnit(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 1, 0)

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		soldOut   int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := facade.PayForProduct(context.Background(), colaPurchase(model.Coins{0, 0, 0, 0, 1, 1}))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, domainErrors.ErrProductUnavailable):
				soldOut++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, buyers-1, soldOut)

	machine, err := store.Machine(testhelpers.MachineID)
	require.NoError(t, err)
	assert.Equal(t, model.Coins{0, 0, 0, 0, 1, 1}, machine.Coins)
}

func TestPurchaseErrorMessage(t *testing.T) {
	err := &PurchaseError{Stage: StagePaid, Err: domainErrors.ErrMachineNotReady}
	assert.Equal(t, "purchase ABORTED after PAID: machine is not READY for operation", err.Error())
	assert.ErrorIs(t, err, domainErrors.ErrMachineNotReady)
}

func TestOperatorFlow(t *testing.T) {
	facade, _ := newMemoryFacade(t, model.Coins{}, 2, 0)
	ctx := context.Background()

	token, err := facade.Authenticate(ctx, testhelpers.OwnerEmail, testhelpers.OwnerPassword)
	require.NoError(t, err)
	ownerID, err := facade.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, testhelpers.OwnerID, ownerID)

	_, err = facade.Authenticate(ctx, testhelpers.OwnerEmail, "wrong")
	require.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)

	machine, err := facade.Machine(ctx, ownerID, testhelpers.MachineID)
	require.NoError(t, err)
	assert.Equal(t, testhelpers.MachineID, machine.ID)

	_, err = facade.Machine(ctx, testhelpers.OtherOwnerID, testhelpers.MachineID)
	require.ErrorIs(t, err, domainErrors.ErrForbidden)
}

func TestOperatorRegister(t *testing.T) {
	facade, _ := newMemoryFacade(t, model.Coins{}, 1, 0)
	ctx := context.Background()
	email := testhelpers.RandomEmail()

	token, err := facade.Register(ctx, "Nina Newcomer", email, "pw")
	require.NoError(t, err)
	ownerID, err := facade.ParseToken(token)
	require.NoError(t, err)
	require.NoError(t, model.ValidateID(ownerID))

	again, err := facade.Authenticate(ctx, email, "pw")
	require.NoError(t, err)
	assert.Equal(t, token, again)

	_, err = facade.Machine(ctx, ownerID, testhelpers.MachineID)
	require.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = facade.Register(ctx, "Copy Cat", testhelpers.OwnerEmail, "pw")
	require.ErrorIs(t, err, domainErrors.ErrAlreadyExists)

	_, err = facade.Register(ctx, "No Password", testhelpers.RandomEmail(), "")
	require.ErrorIs(t, err, domainErrors.ErrInvalidCredentials)
}

func TestOperatorOrderLookup(t *testing.T) {
	facade, _ := newMemoryFacade(t, model.Coins{}, 2, 0)
	ctx := context.Background()

	receipt, err := facade.PayForProduct(ctx, colaPurchase(model.Coins{0, 0, 0, 0, 1, 1}))
	require.NoError(t, err)

	order, err := facade.Order(ctx, testhelpers.OwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime)
	require.NoError(t, err)
	assert.Equal(t, receipt.OrderID, order.ID)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, testhelpers.ColaID, order.Items[0].Product.ID)

	_, err = facade.Order(ctx, testhelpers.OtherOwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime)
	require.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = facade.Order(ctx, testhelpers.OwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime.AddDate(0, -1, 0))
	require.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestOperatorOrderTransitions(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 2, 0)
	ctx := context.Background()

	receipt, err := facade.PayForProduct(ctx, colaPurchase(model.Coins{0, 0, 0, 0, 1, 1}))
	require.NoError(t, err)

	_, err = facade.DeliverOrder(ctx, testhelpers.OwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime)
	require.ErrorIs(t, err, domainErrors.ErrInvalidStatusTransition)

	_, err = facade.CancelOrder(ctx, testhelpers.OwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime)
	require.ErrorIs(t, err, domainErrors.ErrInvalidStatusTransition)

	_, err = facade.CancelOrder(ctx, testhelpers.OtherOwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime)
	require.ErrorIs(t, err, domainErrors.ErrForbidden)

	_, err = facade.DeliverOrder(ctx, testhelpers.OwnerID, testhelpers.MachineID, receipt.OrderID, testhelpers.PurchaseTime.AddDate(0, 1, 0))
	require.ErrorIs(t, err, domainErrors.ErrOrderNotFound)

	order, err := store.Order(receipt.OrderID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusDelivered, order.Status)
}

func TestOperatorCancelsPendingOrder(t *testing.T) {
	facade, store := newMemoryFacade(t, model.Coins{}, 2, 0)
	ctx := context.Background()

	var orderID string
	err := store.Atomically(ctx, func(ctx context.Context, repos repository.Factory) error {
		services := usecase.NewBuilder(testhelpers.HasherStub{}, testhelpers.StrategyStub{}).Bind(repos)
		order, err := services.Orders.Create(ctx, testhelpers.MachineID, testhelpers.ColaID, 1, testhelpers.PurchaseTime)
		if err != nil {
			return err
		}
		orderID = order.ID
		return nil
	})
	require.NoError(t, err)

	canceled, err := facade.CancelOrder(ctx, testhelpers.OwnerID, testhelpers.MachineID, orderID, testhelpers.PurchaseTime)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCanceled, canceled.Status)

	machine, err := store.Machine(testhelpers.MachineID)
	require.NoError(t, err)
	cola, err := machine.ProductByID(testhelpers.ColaID)
	require.NoError(t, err)
	assert.Equal(t, 2, cola.Quantity, "canceling a pending order does not touch stock")
}

type failingHealth struct{ err error }

func (f failingHealth) HealthCheck(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	facade, _ := newMemoryFacade(t, model.Coins{}, 1, 1)
	require.NoError(t, facade.HealthCheck(context.Background()))

	down := errors.New("down")
	facade.health = failingHealth{err: down}
	require.ErrorIs(t, facade.HealthCheck(context.Background()), down)
}
