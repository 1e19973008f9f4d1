package model

import (
	"fmt"

	domainErrors "github.com/polkiloo/vendingmachine/internal/domain/errors"
)

// Product is an item stocked in a machine.
type Product struct {
	ID        string
	Name      string
	Code      string
	Quantity  int
	UnitPrice int
}

// NewProduct validates stock and price before building a product.
func NewProduct(id, name, code string, quantity, unitPrice int) (*Product, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, fmt.Errorf("%w: product %s", domainErrors.ErrNegativeQuantity, id)
	}
	if unitPrice < 0 {
		return nil, fmt.Errorf("%w: product %s", domainErrors.ErrInvalidPrice, id)
	}
	return &Product{ID: id, Name: name, Code: code, Quantity: quantity, UnitPrice: unitPrice}, nil
}

// Available reports whether qty units can be taken from stock.
func (p *Product) Available(qty int) bool {
	return p.Quantity > 0 && p.Quantity >= qty
}

// Reduce takes qty units from stock.
func (p *Product) Reduce(qty int) error {
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	if p.Quantity < qty {
		return fmt.Errorf("%w: %q", domainErrors.ErrProductUnavailable, p.ID)
	}
	p.Quantity -= qty
	return nil
}

// Snapshot captures the product as sold at this moment.
func (p *Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{ID: p.ID, Name: p.Name, Code: p.Code, UnitPrice: p.UnitPrice}
}

// ProductSnapshot is an immutable copy of a product stored with an order.
type ProductSnapshot struct {
	ID        string
	Name      string
	Code      string
	UnitPrice int
}
