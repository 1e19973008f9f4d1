package usecase

import (
	"context"
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
	"github.com/polkiloo/vendingmachine/internal/domain/model"
	"github.com/polkiloo/vendingmachine/internal/domain/repository"
)

// PaymentUseCase settles orders.
type PaymentUseCase struct {
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	newID    IDGenerator
	now      Clock
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, payments repository.PaymentRepository, newID IDGenerator, now Clock) *PaymentUseCase {
	return &PaymentUseCase{orders: orders, payments: payments, newID: newID, now: now}
}

// PayForProduct records a payment of amountPaid for the order created in the month of
// orderCreatedAt.
func (u *PaymentUseCase) PayForProduct(ctx context.Context, orderID, machineID string, amountPaid int, paymentType string, orderCreatedAt time.Time) (*model.Payment, error) {
	order, err := findOrder(ctx, u.orders, orderID, machineID, orderCreatedAt)
	if err != nil {
		return nil, err
	}
	if order.TotalAmount > amountPaid {
		return nil, fmt.Errorf("%w: paid %d of %d", domainErrors.ErrInsufficientPayment, amountPaid, order.TotalAmount)
	}

	kind, err := model.ParsePaymentType(paymentType)
	if err != nil {
		return nil, err
	}

	var payment *model.Payment
	switch kind {
	case model.PaymentTypeCash:
		payment, err = model.NewCashPayment(u.newID(), order.ID, order.TotalAmount, amountPaid, u.now().UTC())
	default:
		err = fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentType, paymentType)
	}
	if err != nil {
		return nil, err
	}

	if err := u.payments.Save(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}
