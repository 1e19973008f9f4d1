package model

import (
	"fmt"
	"time"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// ParseOrderStatus converts stored status into OrderStatus.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCanceled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

// OrderItem is a line of an order with the product as it was sold.
type OrderItem struct {
	ID        string
	Product   ProductSnapshot
	UnitPrice int
	Quantity  int
	Price     int
	CreatedAt time.Time
}

// NewOrderItem snapshots qty units of product.
func NewOrderItem(id string, product ProductSnapshot, qty int, createdAt time.Time) (OrderItem, error) {
	if err := ValidateID(id); err != nil {
		return OrderItem{}, err
	}
	if qty <= 0 {
		return OrderItem{}, domainErrors.ErrInvalidQuantity
	}
	if product.UnitPrice < 0 {
		return OrderItem{}, domainErrors.ErrInvalidPrice
	}
	return OrderItem{
		ID:        id,
		Product:   product,
		UnitPrice: product.UnitPrice,
		Quantity:  qty,
		Price:     product.UnitPrice * qty,
		CreatedAt: createdAt,
	}, nil
}

// Order describes a purchase reserved on a machine.
type Order struct {
	ID          string
	MachineID   string
	Items       []OrderItem
	TotalAmount int
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewOrder creates a PENDING order stamped with createdAt.
func NewOrder(id, machineID string, items []OrderItem, createdAt time.Time) (*Order, error) {
	return RestoreOrder(id, machineID, items, OrderStatusPending, createdAt, createdAt)
}

// RestoreOrder rebuilds an order from storage. Total amount is always derived from items.
func RestoreOrder(id, machineID string, items []OrderItem, status OrderStatus, createdAt, updatedAt time.Time) (*Order, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if err := ValidateID(machineID); err != nil {
		return nil, err
	}
	if _, err := ParseOrderStatus(string(status)); err != nil {
		return nil, err
	}
	total := 0
	for _, item := range items {
		total += item.Price
	}
	return &Order{
		ID:          id,
		MachineID:   machineID,
		Items:       append([]OrderItem(nil), items...),
		TotalAmount: total,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}

// Deliver marks a pending order as delivered.
func (o *Order) Deliver(at time.Time) error {
	return o.transition(OrderStatusDelivered, at)
}

// Cancel marks a pending order as canceled.
func (o *Order) Cancel(at time.Time) error {
	return o.transition(OrderStatusCanceled, at)
}

func (o *Order) transition(to OrderStatus, at time.Time) error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: order %s is %s", domainErrors.ErrInvalidStatusTransition, o.ID, o.Status)
	}
	o.Status = to
	o.UpdatedAt = at
	return nil
}

// OrderPeriod returns the creation month [start, end) orders are partitioned by.
func OrderPeriod(createdAt time.Time) (time.Time, time.Time) {
	start := time.Date(createdAt.Year(), createdAt.Month(), 1, 0, 0, 0, 0, createdAt.Location())
	return start, start.AddDate(0, 1, 0)
}

// InPeriod reports whether the order was created in the same month as t.
func (o *Order) InPeriod(t time.Time) bool {
	start, end := OrderPeriod(t)
	return !o.CreatedAt.Before(start) && o.CreatedAt.Before(end)
}
