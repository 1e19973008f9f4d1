package postgres

import (
	"context"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

type paymentRepository struct {
	db querier
}

// Save stores the payment and its cash settlement details.
func (r *paymentRepository) Save(ctx context.Context, p *model.Payment) error {
	const insertPayment = `INSERT INTO payments (id, order_id, payment_type, amount, paid_at) VALUES ($1, $2, $3, $4, $5)`
	const insertCash = `INSERT INTO cash_payments (payment_id, cash_tendered, change_amount) VALUES ($1, $2, $3)`

	if _, err := r.db.Exec(ctx, insertPayment, p.ID, p.OrderID, string(p.Type), p.Amount, p.PaidAt); err != nil {
		return translateError(err)
	}
	if p.Cash == nil {
		return nil
	}
	if _, err := r.db.Exec(ctx, insertCash, p.ID, p.Cash.Tendered, p.Cash.Change); err != nil {
		return translateError(err)
	}
	return nil
}
