package repository

import (
	"context"

	"github.com/polkiloo/vendingmachine/internal/domain/model"
)

// PaymentRepository stores settled payments.
type PaymentRepository interface {
	Save(ctx context.Context, payment *model.Payment) error
}
