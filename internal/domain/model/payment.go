package model

import (
	"fmt"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// PaymentType identifies settlement method.
type PaymentType string

const PaymentTypeCash PaymentType = "CASH"

// ParsePaymentType accepts known payment types case-insensitively.
func ParsePaymentType(s string) (PaymentType, error) {
	switch PaymentType(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentTypeCash:
		return PaymentTypeCash, nil
	default:
		return "", fmt.Errorf("%w: %q", domainErrors.ErrInvalidPaymentType, s)
	}
}

// CashDetails holds cash specific settlement data.
type CashDetails struct {
	Tendered int
	Change   int
}

// Payment is a completed settlement of an order.
type Payment struct {
	ID      string
	OrderID string
	Type    PaymentType
	Amount  int
	PaidAt  time.Time
	Cash    *CashDetails
}

// NewCashPayment settles amount with tendered cash.
func NewCashPayment(id, orderID string, amount, tendered int, paidAt time.Time) (*Payment, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateID(orderID); err != nil {
		return nil, err
	}
	if amount < 0 {
		return nil, domainErrors.ErrInvalidPrice
	}
	if tendered < amount {
		return nil, fmt.Errorf("%w: cash tendered %d is not enough to pay %d", domainErrors.ErrInsufficientPayment, tendered, amount)
	}
	return &Payment{
		ID:      id,
		OrderID: orderID,
		Type:    PaymentTypeCash,
		Amount:  amount,
		PaidAt:  paidAt,
		Cash:    &CashDetails{Tendered: tendered, Change: tendered - amount},
	}, nil
}

// Change returns money owed back to the buyer.
func (p *Payment) Change() int {
	if p.Cash == nil {
		return 0
	}
	return p.Cash.Change
}

// Clone returns a deep copy of the payment.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.Cash != nil {
		cash := *p.Cash
		c.Cash = &cash
	}
	return &c
}
