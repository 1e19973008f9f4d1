package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	testhelpers "github.com/polkiloo/vendingmachine/internal/test"
)

const paymentOrderID = "6f1c2d3e-4a5b-4c6d-8e7f-000000000100"

func newPendingOrder(t *testing.T) *model.Order {
	t.Helper()
	item, err := model.NewOrderItem("6f1c2d3e-4a5b-4c6d-8e7f-000000000101", model.ProductSnapshot{
		ID: testhelpers.ColaID, Name: "Cola", Code: testhelpers.ColaCode, UnitPrice: testhelpers.ColaPrice,
	}, 1, testhelpers.PurchaseTime)
	if err != nil {
		t.Fatalf("new item: %v", err)
	}
	order, err := model.NewOrder(paymentOrderID, testhelpers.MachineID, []model.OrderItem{item}, testhelpers.PurchaseTime)
	if err != nil {
		t.Fatalf("new order: %v", err)
	}
	return order
}

func TestPaymentUseCasePayForProduct(t *testing.T) {
	payments := &testhelpers.PaymentRepositoryStub{}
	uc := NewPaymentUseCase(testhelpers.NewOrderRepositoryStub(newPendingOrder(t)), payments,
		testhelpers.SequentialIDs(), testhelpers.FixedClock(testhelpers.PurchaseTime))

	payment, err := uc.PayForProduct(context.Background(), paymentOrderID, testhelpers.MachineID, 200, "cash", testhelpers.PurchaseTime)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if payment.Type != model.PaymentTypeCash || payment.Amount != 150 || payment.Change() != 50 {
		t.Fatalf("unexpected payment %+v", payment)
	}
	if len(payments.Saved) != 1 || payments.Saved[0].OrderID != paymentOrderID {
		t.Fatalf("payment was not saved")
	}
}

func TestPaymentUseCaseRejects(t *testing.T) {
	tests := []struct {
		name        string
		orderID     string
		amount      int
		paymentType string
		want        error
	}{
		{"unknown order", testhelpers.OwnerID, 150, "CASH", domainErrors.ErrOrderNotFound},
		{"insufficient payment", paymentOrderID, 149, "CASH", domainErrors.ErrInsufficientPayment},
		{"unsupported type", paymentOrderID, 150, "CARD", domainErrors.ErrInvalidPaymentType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payments := &testhelpers.PaymentRepositoryStub{}
			uc := NewPaymentUseCase(testhelpers.NewOrderRepositoryStub(newPendingOrder(t)), payments,
				testhelpers.SequentialIDs(), testhelpers.FixedClock(testhelpers.PurchaseTime))

			if _, err := uc.PayForProduct(context.Background(), tt.orderID, testhelpers.MachineID, tt.amount, tt.paymentType, testhelpers.PurchaseTime); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(payments.Saved) != 0 {
				t.Fatalf("rejected payment must not be saved")
			}
		})
	}
}

func TestPaymentUseCasePropagatesSaveError(t *testing.T) {
	uc := NewPaymentUseCase(testhelpers.NewOrderRepositoryStub(newPendingOrder(t)),
		&testhelpers.PaymentRepositoryStub{Err: domainErrors.ErrAlreadyExists},
		testhelpers.SequentialIDs(), testhelpers.FixedClock(testhelpers.PurchaseTime))

	if _, err := uc.PayForProduct(context.Background(), paymentOrderID, testhelpers.MachineID, 150, "CASH", testhelpers.PurchaseTime); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists, got %v", err)
	}
}
